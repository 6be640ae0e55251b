package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/domain"
)

func TestAmount_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		key   string
	}{
		{`250`, true, "250"},
		{`250.00`, true, "250"},
		{`"250.50"`, true, "250.5"},
		{`null`, false, ""},
		{`""`, false, ""},
		{`"$250"`, true, "250"},
		{`"$1,250.00"`, true, "1250"},
		{`"1,250.00"`, true, "1250"},
		{`"1250 USD"`, true, "1250"},
		{`"about 1k"`, false, "about 1k"},
		{`{}`, false, ""},
		{`true`, false, ""},
	}
	for _, tt := range tests {
		var a domain.Amount
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.valid, a.Valid, tt.in)
		assert.Equal(t, tt.key, a.Key(), tt.in)
	}
}

func TestAmount_MarshalBareNumber(t *testing.T) {
	b, err := json.Marshal(struct {
		A domain.Amount `json:"a"`
		B domain.Amount `json:"b"`
	}{A: domain.NewAmount(12.5)})

	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 12.5, "b": null}`, string(b))
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "250", domain.NewAmount(250).String())
	assert.Equal(t, "undefined", domain.Amount{}.String())
}

func TestAmount_RawTextRoundTrips(t *testing.T) {
	var a domain.Amount
	require.NoError(t, json.Unmarshal([]byte(`"1.250,00 EUR"`), &a))

	assert.False(t, a.Valid)
	assert.True(t, a.Present())
	assert.Equal(t, "1.250,00 EUR", a.String())
	assert.Zero(t, a.Float64())

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"1.250,00 EUR"`, string(b))
}

func TestParseAmount_OnlyGroupedCommasAreRemoved(t *testing.T) {
	_, ok := domain.ParseAmount("12,50")
	assert.False(t, ok)

	a, ok := domain.ParseAmount("-1,000,000.5")
	require.True(t, ok)
	assert.Equal(t, "-1000000.5", a.Key())
}
