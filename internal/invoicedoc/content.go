// Package invoicedoc converts between persisted invoice document content and
// the in-memory invoice model.
//
// Stored content comes in three shapes: a single invoice object, a bare array
// of invoices, or the envelope {"invoices": [...], "tokenUsage": {...}}. All
// three are read indefinitely; writes always produce the envelope.
package invoicedoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"invoiceflow/internal/domain"
)

// Shape identifies which persisted layout a content blob used.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeSingle
	ShapeSequence
	ShapeEnveloped
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeSequence:
		return "sequence"
	case ShapeEnveloped:
		return "enveloped"
	default:
		return "unknown"
	}
}

var errUnsupportedShape = errors.New("content is neither an object nor an array")

// Content is decoded document content, resolved once from whichever shape was stored.
type Content struct {
	Shape      Shape
	Entries    []domain.Invoice
	TokenUsage *domain.TokenUsage
}

// Decode parses stored content. Malformed content yields an empty Content.
func Decode(content string) Content {
	c, err := DecodeStrict(content)
	if err != nil {
		return Content{}
	}
	return c
}

// DecodeStrict parses stored content and reports why it could not be read.
func DecodeStrict(content string) (Content, error) {
	raw := bytes.TrimSpace([]byte(content))
	if len(raw) == 0 {
		return Content{}, fmt.Errorf("invoicedoc.Decode: empty content")
	}

	switch raw[0] {
	case '[':
		entries, err := decodeSequence(raw)
		if err != nil {
			return Content{}, fmt.Errorf("invoicedoc.Decode sequence: %w", err)
		}
		return Content{Shape: ShapeSequence, Entries: entries}, nil

	case '{':
		var envelope struct {
			Invoices   json.RawMessage `json:"invoices"`
			TokenUsage json.RawMessage `json:"tokenUsage"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return Content{}, fmt.Errorf("invoicedoc.Decode object: %w", err)
		}
		if present(envelope.Invoices) {
			entries, err := decodeEntries(envelope.Invoices)
			if err != nil {
				return Content{}, fmt.Errorf("invoicedoc.Decode envelope: %w", err)
			}
			return Content{Shape: ShapeEnveloped, Entries: entries, TokenUsage: domain.LooseTokenUsage(envelope.TokenUsage)}, nil
		}

		var inv domain.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return Content{}, fmt.Errorf("invoicedoc.Decode single: %w", err)
		}
		return Content{Shape: ShapeSingle, Entries: []domain.Invoice{inv}, TokenUsage: inv.TokenUsage}, nil

	default:
		return Content{}, errUnsupportedShape
	}
}

// decodeEntries reads the value of an "invoices" field. A non-array value
// is treated as a one-element array.
func decodeEntries(raw json.RawMessage) ([]domain.Invoice, error) {
	raw = bytes.TrimSpace(raw)
	if raw[0] == '[' {
		return decodeSequence(raw)
	}
	var inv domain.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, err
	}
	return []domain.Invoice{inv}, nil
}

// decodeSequence decodes an array entry by entry. Entries that are not
// invoice objects are skipped; the rest of the array is kept.
func decodeSequence(raw json.RawMessage) ([]domain.Invoice, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	entries := make([]domain.Invoice, 0, len(elems))
	for _, elem := range elems {
		if !present(elem) {
			continue
		}
		var inv domain.Invoice
		if err := json.Unmarshal(elem, &inv); err != nil {
			continue
		}
		entries = append(entries, inv)
	}
	return entries, nil
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// Invoices returns every entry with DocumentID back-filled from ownerID.
// An entry that already has a DocumentID keeps it.
func (c Content) Invoices(ownerID string) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(c.Entries))
	for _, inv := range c.Entries {
		if inv.DocumentID == "" {
			inv.DocumentID = ownerID
		}
		out = append(out, inv)
	}
	return out
}

// Valid is Invoices without rejection entries.
func (c Content) Valid(ownerID string) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(c.Entries))
	for _, inv := range c.Invoices(ownerID) {
		if inv.IsRejection() {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Usage returns the stored token usage, zero when none was recorded.
func (c Content) Usage() domain.TokenUsage {
	if c.TokenUsage == nil {
		return domain.TokenUsage{}
	}
	return *c.TokenUsage
}

type envelope struct {
	Invoices   []domain.Invoice  `json:"invoices"`
	TokenUsage domain.TokenUsage `json:"tokenUsage"`
}

func newEnvelope(invoices []domain.Invoice, usage domain.TokenUsage) envelope {
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return envelope{Invoices: invoices, TokenUsage: usage}
}

// Encode serializes invoices into the envelope shape.
func Encode(invoices []domain.Invoice, usage domain.TokenUsage) (string, error) {
	b, err := json.Marshal(newEnvelope(invoices, usage))
	if err != nil {
		return "", fmt.Errorf("invoicedoc.Encode: %w", err)
	}
	return string(b), nil
}

// EncodePretty is Encode with two-space indentation, used for stream payloads.
func EncodePretty(invoices []domain.Invoice, usage domain.TokenUsage) (string, error) {
	b, err := json.MarshalIndent(newEnvelope(invoices, usage), "", "  ")
	if err != nil {
		return "", fmt.Errorf("invoicedoc.EncodePretty: %w", err)
	}
	return string(b), nil
}

// Aggregate concatenates the valid invoices of docs in the given order.
// Documents that cannot be decoded are skipped.
func Aggregate(docs []domain.Document) []domain.Invoice {
	all := []domain.Invoice{}
	for i := range docs {
		if docs[i].Content == "" {
			continue
		}
		c, err := DecodeStrict(docs[i].Content)
		if err != nil {
			continue
		}
		all = append(all, c.Valid(docs[i].ID.String())...)
	}
	return all
}
