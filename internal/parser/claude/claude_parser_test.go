package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/config"
	"invoiceflow/internal/parser"
	"invoiceflow/internal/parser/claude"
	"invoiceflow/internal/port"
)

func newTestParser(serverURL string) *claude.Parser {
	cfg := &config.ParserProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  5,
	}
	return claude.NewParserWithEndpoint(cfg, serverURL)
}

func TestClaudeParser_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, "extract invoices", reqBody["system"])
		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "Invoice #9", messages[0].(map[string]interface{})["content"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "{\"invoiceNumber\":\"9\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 321, "output_tokens": 54}
		}`))
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{
		System: "extract invoices",
		Prompt: "Invoice #9",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"invoiceNumber":"9"}`, out.Text)
	assert.Equal(t, int64(321), out.InputTokens)
	assert.Equal(t, int64(54), out.OutputTokens)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestClaudeParser_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "17")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error"}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{Prompt: "x"})

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, 17*time.Second, rlErr.RetryAfter)
}

func TestClaudeParser_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`overloaded`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{Prompt: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClaudeParser_Complete_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{"}],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{Prompt: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestClaudeParser_Complete_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Complete(context.Background(), port.CompletionInput{Prompt: "x"})

	assert.ErrorIs(t, err, parser.ErrEmptyCompletion)
}
