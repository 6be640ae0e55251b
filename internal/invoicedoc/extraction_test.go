package invoicedoc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/invoicedoc"
)

func TestParseExtraction_Invoice(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(acmeObject)

	require.NoError(t, err)
	assert.False(t, ext.Rejected())
	assertAcme(t, ext.Invoice)
}

func TestParseExtraction_Rejection(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{"error": "This document does not appear to be an invoice. Please upload a valid invoice document."}`)

	require.NoError(t, err)
	assert.True(t, ext.Rejected())
	assert.Equal(t, "This document does not appear to be an invoice. Please upload a valid invoice document.", ext.Rejection)
}

func TestParseExtraction_RejectionWinsOverFields(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{"vendorName": "Acme", "error": "receipt"}`)

	require.NoError(t, err)
	assert.True(t, ext.Rejected())
	assert.Equal(t, "receipt", ext.Rejection)
}

func TestParseExtraction_Unparseable(t *testing.T) {
	for _, text := range []string{"", "Sure! Here is the invoice", "[{}]", `{"vendorName": `} {
		_, err := invoicedoc.ParseExtraction(text)
		assert.True(t, errors.Is(err, invoicedoc.ErrUnparseableExtraction), text)
	}
}

func TestParseExtraction_AmountAsString(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{"vendorName": "Acme", "invoiceNumber": "7", "amount": "1250.00"}`)

	require.NoError(t, err)
	assert.Equal(t, "1250", ext.Invoice.Amount.Key())
}

func TestParseExtraction_OffTypeFieldsAreTolerated(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{
  "vendorName": "Acme",
  "invoiceNumber": 12345,
  "invoiceDate": "2024-05-01",
  "amount": 90,
  "lineItems": [
    {"description": "Setup", "quantity": "", "unitPrice": 40, "amount": 40},
    {"description": "Hours", "quantity": "5", "unitPrice": "10", "amount": 50}
  ]
}`)

	require.NoError(t, err)
	assert.Equal(t, "12345", ext.Invoice.InvoiceNumber)
	require.Len(t, ext.Invoice.LineItems, 2)
	assert.Zero(t, ext.Invoice.LineItems[0].Quantity)
	assert.Equal(t, 40.0, ext.Invoice.LineItems[0].Amount)
	assert.Equal(t, 5.0, ext.Invoice.LineItems[1].Quantity)
	assert.Equal(t, 10.0, ext.Invoice.LineItems[1].UnitPrice)
	assert.True(t, invoicedoc.KeyOf(ext.Invoice).Complete())
}

func TestParseExtraction_NonArrayLineItems(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{"vendorName": "Acme", "lineItems": "many"}`)

	require.NoError(t, err)
	assert.Equal(t, "Acme", ext.Invoice.VendorName)
	assert.Empty(t, ext.Invoice.LineItems)
}

func TestParseExtraction_FormattedAmountKeepsValue(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{"vendorName": "Acme", "invoiceNumber": "INV-9", "amount": "$1,250.00"}`)
	require.NoError(t, err)

	key := invoicedoc.KeyOf(ext.Invoice)
	assert.True(t, key.Complete())
	assert.Equal(t, "1250", key.Amount)

	content, err := invoicedoc.Encode([]domain.Invoice{ext.Invoice}, domain.TokenUsage{})
	require.NoError(t, err)
	assert.Contains(t, content, `"amount":1250`)
}

func TestParseExtraction_NonNumericAmountIsKeptAsText(t *testing.T) {
	ext, err := invoicedoc.ParseExtraction(`{"vendorName": "Acme", "invoiceNumber": "INV-9", "amount": "see attached"}`)
	require.NoError(t, err)

	content, err := invoicedoc.Encode([]domain.Invoice{ext.Invoice}, domain.TokenUsage{})
	require.NoError(t, err)
	assert.Contains(t, content, `"amount":"see attached"`)
	assert.Equal(t, "see attached", invoicedoc.KeyOf(ext.Invoice).Amount)
}
