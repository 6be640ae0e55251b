package invoicedoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/invoicedoc"
)

func ptr[T any](v T) *T { return &v }

func editable() domain.Invoice {
	return domain.Invoice{
		VendorName: "Acme",
		Amount:     amount("300"),
		LineItems: []domain.LineItem{
			{Description: "Widget", Quantity: 5, UnitPrice: 50, Amount: 250},
			{Description: "Bolt", Quantity: 10, UnitPrice: 5, Amount: 50},
		},
	}
}

func TestApplyLineItemEdit_RecomputesOnlyThatLine(t *testing.T) {
	inv := editable()

	err := invoicedoc.ApplyLineItemEdit(&inv, 0, invoicedoc.LineItemEdit{Quantity: ptr(3.0)})

	require.NoError(t, err)
	assert.Equal(t, 150.0, inv.LineItems[0].Amount)
	assert.Equal(t, 50.0, inv.LineItems[1].Amount)
	assert.Equal(t, "300", inv.Amount.Key(), "invoice total is not enforced")
}

func TestApplyLineItemEdit_UnitPriceWithoutFloatDrift(t *testing.T) {
	inv := editable()

	err := invoicedoc.ApplyLineItemEdit(&inv, 1, invoicedoc.LineItemEdit{Quantity: ptr(3.0), UnitPrice: ptr(0.1)})

	require.NoError(t, err)
	assert.Equal(t, 0.3, inv.LineItems[1].Amount)
}

func TestApplyLineItemEdit_DescriptionOnlyKeepsAmount(t *testing.T) {
	inv := editable()
	inv.LineItems[0].Amount = 999

	err := invoicedoc.ApplyLineItemEdit(&inv, 0, invoicedoc.LineItemEdit{Description: ptr("Gadget")})

	require.NoError(t, err)
	assert.Equal(t, "Gadget", inv.LineItems[0].Description)
	assert.Equal(t, 999.0, inv.LineItems[0].Amount)
}

func TestApplyLineItemEdit_Errors(t *testing.T) {
	inv := editable()

	assert.ErrorIs(t, invoicedoc.ApplyLineItemEdit(&inv, 2, invoicedoc.LineItemEdit{}), domain.ErrLineItemOutOfRange)
	assert.ErrorIs(t, invoicedoc.ApplyLineItemEdit(&inv, -1, invoicedoc.LineItemEdit{}), domain.ErrLineItemOutOfRange)
	assert.ErrorIs(t, invoicedoc.ApplyLineItemEdit(&inv, 0, invoicedoc.LineItemEdit{Quantity: ptr(-1.0)}), domain.ErrInvalidLineItem)
	assert.Equal(t, editable(), inv)
}
