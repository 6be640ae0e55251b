package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoiceflow/internal/parser"
	"invoiceflow/internal/port"
	"invoiceflow/mocks"
)

var completionInput = port.CompletionInput{System: "system", Prompt: "Invoice #1"}

func completion(model string) *port.CompletionOutput {
	return &port.CompletionOutput{Text: `{"invoiceNumber":"1"}`, InputTokens: 10, OutputTokens: 5, ModelUsed: model}
}

func newFallback(models ...port.LanguageModel) *parser.FallbackParser {
	names := []string{"claude", "gemini", "openai"}[:len(models)]
	return parser.NewFallbackParser(models, names, zap.NewNop())
}

func TestFallbackParser_FirstSucceeds(t *testing.T) {
	m1 := new(mocks.MockLanguageModel)
	m2 := new(mocks.MockLanguageModel)
	m1.On("Complete", mock.Anything, completionInput).Return(completion("claude"), nil)

	out, err := newFallback(m1, m2).Complete(context.Background(), completionInput)

	require.NoError(t, err)
	assert.Equal(t, "claude", out.ModelUsed)
	m2.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestFallbackParser_FirstFails_SecondSucceeds(t *testing.T) {
	m1 := new(mocks.MockLanguageModel)
	m2 := new(mocks.MockLanguageModel)
	m1.On("Complete", mock.Anything, completionInput).Return(nil, errors.New("boom"))
	m2.On("Complete", mock.Anything, completionInput).Return(completion("gemini"), nil)

	out, err := newFallback(m1, m2).Complete(context.Background(), completionInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", out.ModelUsed)
}

func TestFallbackParser_RateLimitedProviderSkippedOnNextCall(t *testing.T) {
	m1 := new(mocks.MockLanguageModel)
	m2 := new(mocks.MockLanguageModel)
	m1.On("Complete", mock.Anything, completionInput).
		Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 60)).Once()
	m2.On("Complete", mock.Anything, completionInput).Return(completion("gemini"), nil)

	fp := newFallback(m1, m2)
	_, err := fp.Complete(context.Background(), completionInput)
	require.NoError(t, err)

	out, err := fp.Complete(context.Background(), completionInput)
	require.NoError(t, err)
	assert.Equal(t, "gemini", out.ModelUsed)
	m1.AssertNumberOfCalls(t, "Complete", 1)
	m2.AssertNumberOfCalls(t, "Complete", 2)
}

func TestFallbackParser_AllRateLimited(t *testing.T) {
	m1 := new(mocks.MockLanguageModel)
	m2 := new(mocks.MockLanguageModel)
	m1.On("Complete", mock.Anything, completionInput).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 30))
	m2.On("Complete", mock.Anything, completionInput).Return(nil, parser.NewRateLimitError("gemini", errors.New("429"), 10))

	_, err := newFallback(m1, m2).Complete(context.Background(), completionInput)

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), float64(10))
}

func TestFallbackParser_AllFail(t *testing.T) {
	m1 := new(mocks.MockLanguageModel)
	m2 := new(mocks.MockLanguageModel)
	m1.On("Complete", mock.Anything, completionInput).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 30))
	m2.On("Complete", mock.Anything, completionInput).Return(nil, errors.New("bad gateway"))

	_, err := newFallback(m1, m2).Complete(context.Background(), completionInput)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestFallbackParser_CanceledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m1 := new(mocks.MockLanguageModel)
	m2 := new(mocks.MockLanguageModel)
	m1.On("Complete", mock.Anything, completionInput).Return(nil, context.Canceled)

	_, err := newFallback(m1, m2).Complete(ctx, completionInput)

	assert.ErrorIs(t, err, context.Canceled)
	m2.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
