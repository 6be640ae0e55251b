package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrInvalidDocumentID       = errors.New("invalid document id")
	ErrMissingDocumentID       = errors.New("invoice has no document id")
	ErrInvalidContent          = errors.New("content is not valid invoice JSON")
	ErrLineItemOutOfRange      = errors.New("line item index out of range")
	ErrInvalidLineItem         = errors.New("quantity and unit price must not be negative")
	ErrNoInvoices              = errors.New("No invoices found in the system.")
	ErrInvoiceNotFound         = errors.New("Could not find the requested invoice.")
	ErrNoValidInvoices         = errors.New("No valid invoices found in the system.")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrDeletionIncomplete      = errors.New("Document deletion did not complete")
	ErrArchiveDisabled         = errors.New("source archive is disabled")
)
