package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/config"
	"invoiceflow/internal/parser"
	"invoiceflow/internal/parser/openai"
	"invoiceflow/internal/port"
)

func newTestParser(serverURL string) *openai.Parser {
	cfg := &config.ParserProviderConfig{
		Provider:     "openai",
		APIKey:       "test-api-key",
		DefaultModel: "gpt-4o-mini",
		MaxRetries:   0,
		TimeoutSecs:  5,
	}
	return openai.NewParserWithEndpoint(cfg, serverURL+"/v1/")
}

func TestOpenAIParser_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var reqBody struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o-mini", reqBody.Model)
		require.Len(t, reqBody.Messages, 2)
		assert.Equal(t, "system", reqBody.Messages[0].Role)
		assert.Equal(t, "user", reqBody.Messages[1].Role)
		assert.Equal(t, "Invoice #3", reqBody.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"invoiceNumber\":\"3\"}"}}],
			"usage": {"prompt_tokens": 150, "completion_tokens": 25, "total_tokens": 175}
		}`))
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{
		System: "extract",
		Prompt: "Invoice #3",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"invoiceNumber":"3"}`, out.Text)
	assert.Equal(t, int64(150), out.InputTokens)
	assert.Equal(t, int64(25), out.OutputTokens)
	assert.Equal(t, "gpt-4o-mini", out.ModelUsed)
}

func TestOpenAIParser_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit"}}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{Prompt: "x"})

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(12), rlErr.RetryAfter.Seconds())
}

func TestOpenAIParser_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{Prompt: "x"})

	assert.ErrorIs(t, err, parser.ErrEmptyCompletion)
}
