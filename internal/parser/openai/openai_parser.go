package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"invoiceflow/internal/config"
	"invoiceflow/internal/parser"
	"invoiceflow/internal/port"
)

const defaultBaseURL = "https://api.openai.com/v1/"

// Parser implements port.LanguageModel with the openai-go SDK. Any
// OpenAI-compatible endpoint (OpenRouter, vLLM, ...) works via base_url.
type Parser struct {
	client openai.Client
	model  string
}

// NewParser creates an OpenAI-compatible language model from a provider config.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return newParser(cfg, base)
}

// NewParserWithEndpoint creates a parser pointing at a custom base URL (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, baseURL string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Parser{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithHTTPClient(&http.Client{Timeout: timeout}),
			option.WithMaxRetries(cfg.MaxRetries),
			option.WithHeader("X-Title", "invoiceflow"),
		),
		model: model,
	}
}

func (p *Parser) Complete(ctx context.Context, input port.CompletionInput) (*port.CompletionOutput, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if input.System != "" {
		messages = append(messages, openai.SystemMessage(input.System))
	}
	messages = append(messages, openai.UserMessage(input.Prompt))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   param.NewOpt[int64](4096),
		Temperature: param.NewOpt[float64](0.1),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			retryAfter := 0
			if apiErr.Response != nil {
				retryAfter = parser.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
			}
			return nil, parser.NewRateLimitError("openai", err, retryAfter)
		}
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, parser.ErrEmptyCompletion
	}
	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return &port.CompletionOutput{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		ModelUsed:    p.model,
	}, nil
}
