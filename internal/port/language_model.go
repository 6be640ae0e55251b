package port

import "context"

// CompletionInput is one system/user prompt pair sent to a language model.
type CompletionInput struct {
	System string
	Prompt string
}

// CompletionOutput is the full text of a completion and its token usage.
type CompletionOutput struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
	ModelUsed    string
}

// LanguageModel abstracts a chat-completion provider.
type LanguageModel interface {
	Complete(ctx context.Context, input CompletionInput) (*CompletionOutput, error)
}

// InvoiceExtractor turns free document text into invoice JSON or an
// {"error": ...} rejection. The returned Text has any code fence removed.
type InvoiceExtractor interface {
	Extract(ctx context.Context, rawText string) (*CompletionOutput, error)
}

// InvoiceUpdater regenerates a single invoice from existing content and a
// change description.
type InvoiceUpdater interface {
	Update(ctx context.Context, currentContent, description string) (*CompletionOutput, error)
}
