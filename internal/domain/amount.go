package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Amount is an invoice total that may be absent. It reads JSON numbers,
// numeric strings and null. A string that is not a number after currency
// symbols and thousands separators are removed is kept as Raw text.
type Amount struct {
	Value decimal.Decimal
	Valid bool
	Raw   string
}

var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// NewAmount returns a present Amount from a float.
func NewAmount(v float64) Amount {
	return Amount{Value: decimal.NewFromFloat(v), Valid: true}
}

// ParseAmount parses s as a decimal, ignoring surrounding currency symbols
// or codes and comma thousands separators ("$1,250.00", "1250 USD").
func ParseAmount(s string) (Amount, bool) {
	s = normalizeAmountText(s)
	if s == "" {
		return Amount{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, false
	}
	return Amount{Value: d, Valid: true}, true
}

// AmountFromText parses s, keeping the trimmed text as Raw when it is not
// a number.
func AmountFromText(s string) Amount {
	if a, ok := ParseAmount(s); ok {
		return a
	}
	return Amount{Raw: strings.TrimSpace(s)}
}

func normalizeAmountText(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.Is(unicode.Sc, r)
	})
	if groupedThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// Present reports whether the amount carries a number or raw text.
func (a Amount) Present() bool {
	return a.Valid || a.Raw != ""
}

// Key returns the normalized decimal text used for duplicate matching.
// Non-numeric amounts fall back to their raw text; absent amounts give "".
func (a Amount) Key() string {
	if !a.Valid {
		return a.Raw
	}
	return a.Value.String()
}

// String renders the amount for messages.
func (a Amount) String() string {
	switch {
	case a.Valid:
		return a.Value.String()
	case a.Raw != "":
		return a.Raw
	default:
		return "undefined"
	}
}

// Float64 returns the amount as a float, zero when absent or non-numeric.
func (a Amount) Float64() float64 {
	if !a.Valid {
		return 0
	}
	return a.Value.InexactFloat64()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.Valid:
		return []byte(a.Value.String()), nil
	case a.Raw != "":
		return json.Marshal(a.Raw)
	default:
		return []byte("null"), nil
	}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Amount{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*a = AmountFromText(s)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*a, _ = ParseAmount(string(data))
	}
	return nil
}
