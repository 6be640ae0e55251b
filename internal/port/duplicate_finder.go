package port

import (
	"context"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/invoicedoc"
)

// DuplicateMatch identifies the stored invoice that matched a candidate key.
type DuplicateMatch struct {
	DocumentID string
	Invoice    domain.Invoice
}

// DuplicateInvoiceFinder checks stored invoices for one with the same
// vendor, invoice number and amount. A nil match means none was found.
type DuplicateInvoiceFinder interface {
	FindDuplicate(ctx context.Context, key invoicedoc.Key) (*DuplicateMatch, error)
}

// DuplicateNotice describes a rejected duplicate submission.
type DuplicateNotice struct {
	VendorName        string
	InvoiceNumber     string
	Amount            string
	ExistingInvoiceID string
}

// DuplicateNotifier alerts someone that a duplicate invoice was submitted.
type DuplicateNotifier interface {
	NotifyDuplicate(ctx context.Context, notice DuplicateNotice) error
}
