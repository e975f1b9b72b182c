// Package costmodel converts misclassification outcomes into business cost.
// A false alarm costs a fixed review fee; a missed fraud costs a multiple of
// the transaction amount.
package costmodel

import (
	"context"

	"github.com/iwvelando/fraud-metrics/pkg/series"
)

// Parameters holds the caller-supplied cost configuration. Values are read
// per call and never retained.
type Parameters struct {
	// PerFalsePositive is the fixed cost incurred for each legitimate
	// transaction flagged as fraud.
	PerFalsePositive float64

	// FalseNegativeMultiplier scales the transaction amount of each missed
	// fraud to yield its cost.
	FalseNegativeMultiplier float64
}

// Breakdown separates the total cost into its false-positive and
// false-negative components.
type Breakdown struct {
	FalsePositive float64
	FalseNegative float64
}

// Total returns the combined misclassification cost.
func (b Breakdown) Total() float64 {
	return b.FalsePositive + b.FalseNegative
}

// TotalCost scores the three parallel sequences under the given parameters.
// It fails with series.LengthMismatchError on any cardinality mismatch among
// the sequences, before any aggregation.
func TotalCost(actual []bool, predicted []*bool, amounts []*float64, params Parameters) (Breakdown, error) {
	aligned, err := series.FromLabeledAmounts(actual, predicted, amounts)
	if err != nil {
		return Breakdown{}, err
	}
	return CostFromSeries(aligned, params), nil
}

// CostFromSeries scores an already-built series. Records without a predicted
// label contribute nothing; a false negative missing its amount likewise
// contributes nothing, consistent with the skip-incomplete-records policy.
func CostFromSeries(aligned series.Aligned, params Parameters) Breakdown {
	breakdown, _ := CostFromSeriesContext(context.Background(), aligned, params)
	return breakdown
}

// CostFromSeriesContext is CostFromSeries with cancellation checked at each
// record boundary, for long-running deployments scoring large volumes. The
// only error it returns is ctx.Err().
func CostFromSeriesContext(ctx context.Context, aligned series.Aligned, params Parameters) (Breakdown, error) {
	var breakdown Breakdown
	for _, record := range aligned.Records {
		if err := ctx.Err(); err != nil {
			return Breakdown{}, err
		}
		if record.Predicted == nil {
			continue
		}
		switch {
		case !record.Actual && *record.Predicted:
			breakdown.FalsePositive += params.PerFalsePositive
		case record.Actual && !*record.Predicted:
			if record.Amount == nil {
				continue
			}
			breakdown.FalseNegative += *record.Amount * params.FalseNegativeMultiplier
		}
	}
	return breakdown, nil
}
