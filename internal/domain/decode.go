package domain

import (
	"bytes"
	"encoding/json"
)

// Invoices come from model output and from content written by older
// clients, so field types are not trusted. Invoice and LineItem decode
// every field independently: a value of the wrong type becomes the zero
// value instead of failing the whole record.

func (i *Invoice) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	inv := Invoice{
		CustomerName:  looseString(fields["customerName"]),
		VendorName:    looseString(fields["vendorName"]),
		InvoiceNumber: looseString(fields["invoiceNumber"]),
		InvoiceDate:   looseString(fields["invoiceDate"]),
		DueDate:       looseString(fields["dueDate"]),
		DocumentID:    looseString(fields["documentId"]),
		LineItems:     looseLineItems(fields["lineItems"]),
		TokenUsage:    LooseTokenUsage(fields["tokenUsage"]),
		Error:         errorText(fields["error"]),
	}
	if raw, ok := fields["amount"]; ok {
		if err := inv.Amount.UnmarshalJSON(raw); err != nil {
			inv.Amount = Amount{}
		}
	}
	*i = inv
	return nil
}

func (l *LineItem) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*l = LineItem{
		Description: looseString(fields["description"]),
		Quantity:    looseNumber(fields["quantity"]),
		UnitPrice:   looseNumber(fields["unitPrice"]),
		Amount:      looseNumber(fields["amount"]),
	}
	return nil
}

// LooseTokenUsage decodes a tokenUsage value, returning nil when it is
// absent or not a usage object.
func LooseTokenUsage(raw json.RawMessage) *TokenUsage {
	if isNull(raw) {
		return nil
	}
	var u TokenUsage
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

func looseLineItems(raw json.RawMessage) []LineItem {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	items := make([]LineItem, 0, len(elems))
	for _, elem := range elems {
		if isNull(elem) {
			continue
		}
		var item LineItem
		if err := json.Unmarshal(elem, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

// looseString reads strings as-is and numbers or booleans as their JSON text.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 'n', '{', '[':
		return ""
	default:
		return string(raw)
	}
}

// looseNumber reads numbers and numeric strings; anything else is 0.
func looseNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
	}
	a, ok := ParseAmount(text)
	if !ok {
		return 0
	}
	return a.Value.InexactFloat64()
}

// errorText keeps any non-null error value so a rejection is never lost.
func errorText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return ""
	}
	if s := looseString(raw); s != "" {
		return s
	}
	if raw[0] == '"' {
		return ""
	}
	return string(raw)
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
