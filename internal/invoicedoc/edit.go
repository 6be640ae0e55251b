package invoicedoc

import (
	"github.com/shopspring/decimal"

	"invoiceflow/internal/domain"
)

// LineItemEdit holds the fields changed by an interactive line edit.
// Nil fields are left as they are.
type LineItemEdit struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unitPrice"`
}

// ApplyLineItemEdit updates one line of inv. When quantity or unit price
// changes, that line's amount is recomputed as quantity × unitPrice. The
// invoice total is not adjusted.
func ApplyLineItemEdit(inv *domain.Invoice, index int, edit LineItemEdit) error {
	if index < 0 || index >= len(inv.LineItems) {
		return domain.ErrLineItemOutOfRange
	}
	if (edit.Quantity != nil && *edit.Quantity < 0) || (edit.UnitPrice != nil && *edit.UnitPrice < 0) {
		return domain.ErrInvalidLineItem
	}

	item := &inv.LineItems[index]
	if edit.Description != nil {
		item.Description = *edit.Description
	}
	recompute := false
	if edit.Quantity != nil {
		item.Quantity = *edit.Quantity
		recompute = true
	}
	if edit.UnitPrice != nil {
		item.UnitPrice = *edit.UnitPrice
		recompute = true
	}
	if recompute {
		item.Amount = LineAmount(item.Quantity, item.UnitPrice)
	}
	return nil
}

// LineAmount multiplies quantity by unit price without float drift.
func LineAmount(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).InexactFloat64()
}
