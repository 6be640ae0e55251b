package invoicedoc

import (
	"strings"

	"invoiceflow/internal/domain"
)

// Key identifies an invoice for duplicate matching. The vendor name is
// compared case-insensitively and the invoice number exactly. Amounts compare
// as normalized decimal text, or as raw text when they are not numbers.
type Key struct {
	Vendor string
	Number string
	Amount string
}

// KeyOf derives the duplicate key of inv.
func KeyOf(inv domain.Invoice) Key {
	return Key{
		Vendor: strings.ToLower(inv.VendorName),
		Number: inv.InvoiceNumber,
		Amount: inv.Amount.Key(),
	}
}

// NewKey builds a key from raw lookup values, reading the amount the same
// way stored invoices read theirs.
func NewKey(vendorName, invoiceNumber, amount string) Key {
	return KeyOf(domain.Invoice{VendorName: vendorName, InvoiceNumber: invoiceNumber, Amount: domain.AmountFromText(amount)})
}

// Complete reports whether all three components are present. Incomplete
// keys never match anything.
func (k Key) Complete() bool {
	return k.Vendor != "" && k.Number != "" && k.Amount != ""
}

// Matches reports whether k and other identify the same invoice.
func (k Key) Matches(other Key) bool {
	return k.Complete() && other.Complete() && k == other
}

func (k Key) String() string {
	return k.Vendor + "|" + k.Number + "|" + k.Amount
}
