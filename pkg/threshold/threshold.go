// Package threshold searches the fixed candidate grid of probability cutoffs
// for the decision threshold that minimizes expected business cost.
package threshold

import (
	"context"

	"github.com/iwvelando/fraud-metrics/pkg/costmodel"
	"github.com/iwvelando/fraud-metrics/pkg/metrics"
	"github.com/iwvelando/fraud-metrics/pkg/series"
	"golang.org/x/sync/errgroup"
)

// GridSize is the number of candidate thresholds evaluated per sweep.
const GridSize = 10

// Grid returns the fixed, deterministic candidate thresholds
// {0.05, 0.10, ..., 0.50} in ascending order. The grid is carried over from
// the reference pipeline verbatim; it is intentionally not derived from the
// data and caps at 0.50 (see the project design notes before widening it,
// since a wider grid changes every selected threshold downstream).
func Grid() []float64 {
	grid := make([]float64, GridSize)
	for i := range grid {
		grid[i] = float64(i+1) / 20
	}
	return grid
}

// Result captures the evaluation of a single grid point.
type Result struct {
	Threshold float64
	TotalCost float64
	Matrix    metrics.ConfusionMatrix
}

// Optimize sweeps the grid and returns the minimum-cost result. Ties are
// broken toward the smallest threshold. It fails with
// series.LengthMismatchError on cardinality mismatch and with ctx.Err() on
// cancellation.
func Optimize(ctx context.Context, actual []bool, probabilities []*float64, amounts []*float64, params costmodel.Parameters) (Result, error) {
	aligned, err := series.FromProbabilities(actual, probabilities, amounts)
	if err != nil {
		return Result{}, err
	}
	return OptimizeSeries(ctx, aligned, params)
}

// OptimizeSeries is Optimize over an already-built series.
func OptimizeSeries(ctx context.Context, aligned series.Aligned, params costmodel.Parameters) (Result, error) {
	results, err := SweepSeries(ctx, aligned, params)
	if err != nil {
		return Result{}, err
	}

	// Strict comparison while scanning the ascending grid keeps the
	// smallest threshold on ties.
	best := results[0]
	for _, result := range results[1:] {
		if result.TotalCost < best.TotalCost {
			best = result
		}
	}
	return best, nil
}

// Sweep evaluates every grid point and returns all results in grid order.
func Sweep(ctx context.Context, actual []bool, probabilities []*float64, amounts []*float64, params costmodel.Parameters) ([]Result, error) {
	aligned, err := series.FromProbabilities(actual, probabilities, amounts)
	if err != nil {
		return nil, err
	}
	return SweepSeries(ctx, aligned, params)
}

// SweepSeries evaluates every grid point over an already-built series. The
// per-threshold evaluations are independent read-only passes over the same
// immutable input, so they run concurrently, one goroutine per grid point.
func SweepSeries(ctx context.Context, aligned series.Aligned, params costmodel.Parameters) ([]Result, error) {
	grid := Grid()
	results := make([]Result, len(grid))

	group, ctx := errgroup.WithContext(ctx)
	for i, cutoff := range grid {
		i, cutoff := i, cutoff
		group.Go(func() error {
			scored := aligned.ApplyThreshold(cutoff)
			breakdown, err := costmodel.CostFromSeriesContext(ctx, scored, params)
			if err != nil {
				return err
			}
			results[i] = Result{
				Threshold: cutoff,
				TotalCost: breakdown.Total(),
				Matrix:    metrics.ConfusionFromSeries(scored),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
