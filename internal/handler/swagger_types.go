package handler

import "invoiceflow/internal/domain"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ProcessInvoiceRequest represents the process invoice request body.
type ProcessInvoiceRequest struct {
	InvoiceContent  string `json:"invoiceContent" binding:"required" example:"INVOICE #INV-001\nAcme Corp\nBill to: Globex\nTotal: $1,500.50"`
	ExistingBlockID string `json:"existingBlockId" example:"block-7"`
}

// RegenerateInvoiceRequest represents the regenerate invoice request body.
type RegenerateInvoiceRequest struct {
	Description string `json:"description" binding:"required" example:"Change the due date to 2024-03-01"`
}

// UpdateInvoiceRequest represents the replace-content request body.
type UpdateInvoiceRequest struct {
	Content string `json:"content" binding:"required" example:"{\"invoices\":[{\"vendorName\":\"Acme Corp\"}],\"tokenUsage\":{}}"`
}

// --- Response Types ---

// Response is the generic success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// StreamedResponse is the non-SSE form of a streamed operation: the final
// result plus every event that would have been streamed, in order.
type StreamedResponse struct {
	Result interface{}          `json:"result"`
	Events []domain.StreamEvent `json:"events"`
}
