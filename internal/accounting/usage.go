// Package accounting derives token usage and estimated cost for model calls.
package accounting

import (
	"github.com/shopspring/decimal"

	"invoiceflow/internal/domain"
)

const (
	// InputCostPerMillion is the price of one million input tokens.
	InputCostPerMillion = 3
	// OutputCostPerMillion is the price of one million output tokens.
	OutputCostPerMillion = 15
	// MinDisplayCost is the smallest cost shown on an aggregate display.
	MinDisplayCost = 0.0001
)

var million = decimal.NewFromInt(1_000_000)

// Compute returns the usage for the given token counts. Negative counts are
// treated as zero.
func Compute(input, output int64) domain.TokenUsage {
	if input < 0 {
		input = 0
	}
	if output < 0 {
		output = 0
	}
	return domain.TokenUsage{
		Input:         input,
		Output:        output,
		Total:         input + output,
		EstimatedCost: EstimatedCost(input, output),
	}
}

// EstimatedCost prices input and output tokens at the fixed per-million rates.
func EstimatedCost(input, output int64) float64 {
	in := decimal.NewFromInt(input).Div(million).Mul(decimal.NewFromInt(InputCostPerMillion))
	out := decimal.NewFromInt(output).Div(million).Mul(decimal.NewFromInt(OutputCostPerMillion))
	return in.Add(out).InexactFloat64()
}

// ForDisplay returns a copy of u with counts floored at 1 and cost floored
// at MinDisplayCost, so a zero-usage run never renders as literal zero.
func ForDisplay(u domain.TokenUsage) domain.TokenUsage {
	return domain.TokenUsage{
		Input:         max(u.Input, 1),
		Output:        max(u.Output, 1),
		Total:         max(u.Input+u.Output, 1),
		EstimatedCost: max(u.EstimatedCost, MinDisplayCost),
	}
}
