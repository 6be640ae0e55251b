package parser

import (
	"context"
	"fmt"
	"strings"

	"invoiceflow/internal/port"
)

// Extractor runs the invoice extraction prompt against a language model.
type Extractor struct {
	model port.LanguageModel
}

var _ port.InvoiceExtractor = (*Extractor)(nil)

// NewExtractor creates an Extractor over the given model.
func NewExtractor(model port.LanguageModel) *Extractor {
	return &Extractor{model: model}
}

// Extract sends rawText with the extraction prompt. The returned text is the
// model's JSON with any code fence removed; token counts travel with it.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*port.CompletionOutput, error) {
	out, err := e.model.Complete(ctx, port.CompletionInput{
		System: InvoicePrompt,
		Prompt: rawText,
	})
	if err != nil {
		return nil, fmt.Errorf("extractor.Extract: %w", err)
	}
	out.Text = ExtractJSON(out.Text)
	return out, nil
}

// Updater regenerates invoice data from its current content and a change request.
type Updater struct {
	model port.LanguageModel
}

var _ port.InvoiceUpdater = (*Updater)(nil)

// NewUpdater creates an Updater over the given model.
func NewUpdater(model port.LanguageModel) *Updater {
	return &Updater{model: model}
}

func (u *Updater) Update(ctx context.Context, currentContent, description string) (*port.CompletionOutput, error) {
	out, err := u.model.Complete(ctx, port.CompletionInput{
		System: UpdatePrompt(currentContent),
		Prompt: description,
	})
	if err != nil {
		return nil, fmt.Errorf("updater.Update: %w", err)
	}
	out.Text = ExtractJSON(out.Text)
	return out, nil
}

// ExtractJSON pulls JSON out of a model response, unwrapping a markdown code
// block when present. Text without a fence is returned trimmed.
func ExtractJSON(response string) string {
	if start := strings.Index(response, "```json"); start != -1 {
		start += len("```json")
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	if start := strings.Index(response, "```"); start != -1 {
		start += 3
		// skip a language tag
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	return strings.TrimSpace(response)
}
