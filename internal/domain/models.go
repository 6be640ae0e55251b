package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is the persisted container for one processing run. Content is an
// opaque JSON blob holding one or more invoices; see package invoicedoc.
type Document struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Kind      DocumentKind `db:"kind" json:"kind"`
	Title     string       `db:"title" json:"title"`
	Content   string       `db:"content" json:"content"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// LineItem is a single billed line of an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// Invoice is the normalized record extracted from a billing document.
// Entries carrying Error are rejections and never reach aggregate views.
type Invoice struct {
	CustomerName  string      `json:"customerName"`
	VendorName    string      `json:"vendorName"`
	InvoiceNumber string      `json:"invoiceNumber"`
	InvoiceDate   string      `json:"invoiceDate"`
	DueDate       string      `json:"dueDate,omitempty"`
	Amount        Amount      `json:"amount"`
	LineItems     []LineItem  `json:"lineItems"`
	DocumentID    string      `json:"documentId,omitempty"`
	TokenUsage    *TokenUsage `json:"tokenUsage,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// IsRejection reports whether the entry is an extraction rejection.
func (i *Invoice) IsRejection() bool {
	return i.Error != ""
}

// TokenUsage records model token counts and the derived cost of a run.
type TokenUsage struct {
	Input         int64   `json:"input"`
	Output        int64   `json:"output"`
	Total         int64   `json:"total"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// StreamEvent is one entry of the ordered update stream sent to a display.
type StreamEvent struct {
	Type    StreamEventType `json:"type"`
	Content string          `json:"content"`
}
