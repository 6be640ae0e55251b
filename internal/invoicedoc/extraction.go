package invoicedoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"invoiceflow/internal/domain"
)

// ErrUnparseableExtraction is returned when model output is not a JSON object.
var ErrUnparseableExtraction = errors.New("extraction output is not a JSON object")

// Extraction is the decoded output of an extraction or update call: either
// an invoice or a rejection message.
type Extraction struct {
	Invoice   domain.Invoice
	Rejection string
}

// Rejected reports whether the model judged the input not to be an invoice.
func (e Extraction) Rejected() bool {
	return e.Rejection != ""
}

// ParseExtraction decodes model output. Any object carrying an "error" key
// is a rejection, whatever its other fields.
func ParseExtraction(text string) (Extraction, error) {
	raw := bytes.TrimSpace([]byte(text))
	if len(raw) == 0 || raw[0] != '{' {
		return Extraction{}, ErrUnparseableExtraction
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnparseableExtraction, err)
	}

	if errRaw, ok := fields["error"]; ok {
		var msg string
		if err := json.Unmarshal(errRaw, &msg); err != nil || msg == "" {
			msg = string(bytes.TrimSpace(errRaw))
		}
		return Extraction{Rejection: msg}, nil
	}

	var inv domain.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnparseableExtraction, err)
	}
	return Extraction{Invoice: inv}, nil
}
