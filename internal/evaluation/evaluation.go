// Package evaluation orchestrates the calculators over a loaded prediction
// dataset and assembles the full report the output and server layers render.
package evaluation

import (
	"context"
	"fmt"

	"github.com/iwvelando/fraud-metrics/internal/config"
	"github.com/iwvelando/fraud-metrics/pkg/constants"
	"github.com/iwvelando/fraud-metrics/pkg/costmodel"
	"github.com/iwvelando/fraud-metrics/pkg/dataset"
	"github.com/iwvelando/fraud-metrics/pkg/mathutil"
	"github.com/iwvelando/fraud-metrics/pkg/metrics"
	"github.com/iwvelando/fraud-metrics/pkg/risk"
	"github.com/iwvelando/fraud-metrics/pkg/threshold"
	"github.com/iwvelando/fraud-metrics/pkg/validation"
	"go.uber.org/zap"
)

// Report holds everything computed for one evaluation run.
type Report struct {
	Records           int
	DecisionThreshold float64
	Metrics           metrics.Summary
	Cost              costmodel.Breakdown
	TotalCost         float64
	Sweep             []threshold.Result
	Best              *threshold.Result
	RiskBands         []risk.BandStats
	AmountBuckets     []AmountBucket
	HourlyPatterns    []HourlyStat
}

// AmountBucket aggregates transactions falling into one amount range.
type AmountBucket struct {
	Label           string
	Transactions    int
	ActualFraud     int
	FraudPercentage float64
}

// HourlyStat aggregates transactions by hour of day.
type HourlyStat struct {
	Hour         int
	Transactions int
	ActualFraud  int
	FraudRate    float64
}

// Run evaluates the dataset under the given configuration. Predicted labels
// are taken from the export where present; records carrying only a
// probability fall back to the fixed decision rule
// predicted = (probability >= decisionThreshold).
func Run(ctx context.Context, logger *zap.Logger, ds *dataset.Dataset, conf *config.Configuration) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	params := conf.CostParameters()
	if err := validation.ValidateCostParameters(params.PerFalsePositive, params.FalseNegativeMultiplier); err != nil {
		return nil, err
	}

	cutoff := conf.Evaluation.DecisionThreshold
	predicted := effectivePredictions(ds, cutoff)

	summary, err := metrics.Evaluate(ds.Actual, predicted)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}

	cost, err := costmodel.TotalCost(ds.Actual, predicted, ds.Amounts, params)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cost: %w", err)
	}

	report := &Report{
		Records:           ds.Len(),
		DecisionThreshold: cutoff,
		Metrics:           summary,
		Cost:              cost,
		TotalCost:         cost.Total(),
	}

	if conf.Evaluation.Optimize && hasProbabilities(ds) {
		sweep, err := threshold.Sweep(ctx, ds.Actual, ds.Probabilities, ds.Amounts, params)
		if err != nil {
			return nil, fmt.Errorf("threshold sweep failed: %w", err)
		}
		report.Sweep = sweep

		best := sweep[0]
		for _, result := range sweep[1:] {
			if result.TotalCost < best.TotalCost {
				best = result
			}
		}
		report.Best = &best

		logger.Info("threshold sweep complete",
			zap.String("op", "evaluation.Run"),
			zap.Float64("bestThreshold", best.Threshold),
			zap.Float64("bestCost", best.TotalCost),
		)
	}

	if hasProbabilities(ds) {
		bands, err := risk.Distribution(ds.Actual, ds.Probabilities)
		if err != nil {
			return nil, fmt.Errorf("failed to compute risk distribution: %w", err)
		}
		report.RiskBands = bands
	}

	report.AmountBuckets = amountBuckets(ds)
	report.HourlyPatterns = hourlyPatterns(ds)

	logger.Info("evaluation complete",
		zap.String("op", "evaluation.Run"),
		zap.Int("records", report.Records),
		zap.Int("classified", summary.Matrix.Total()),
		zap.Float64("totalCost", report.TotalCost),
	)

	return report, nil
}

// effectivePredictions merges exported predicted labels with labels derived
// from probabilities for records that carry only a probability.
func effectivePredictions(ds *dataset.Dataset, cutoff float64) []*bool {
	predicted := make([]*bool, len(ds.Actual))
	for i := range ds.Actual {
		if i < len(ds.Predicted) && ds.Predicted[i] != nil {
			predicted[i] = ds.Predicted[i]
			continue
		}
		if i < len(ds.Probabilities) && ds.Probabilities[i] != nil {
			derived := *ds.Probabilities[i] >= cutoff
			predicted[i] = &derived
		}
	}
	return predicted
}

func hasProbabilities(ds *dataset.Dataset) bool {
	for _, probability := range ds.Probabilities {
		if probability != nil {
			return true
		}
	}
	return false
}

// amountBrackets are the reporting ranges used by the upstream BI exports.
var amountBrackets = []struct {
	label string
	limit float64
}{
	{"< $10", 10},
	{"$10 - $49.99", 50},
	{"$50 - $99.99", 100},
	{"$100 - $499.99", 500},
	{"$500 - $999.99", 1000},
}

const topBracketLabel = "$1000+"

func bracketLabel(amount float64) string {
	for _, bracket := range amountBrackets {
		if amount < bracket.limit {
			return bracket.label
		}
	}
	return topBracketLabel
}

func amountBuckets(ds *dataset.Dataset) []AmountBucket {
	labels := make([]string, 0, len(amountBrackets)+1)
	for _, bracket := range amountBrackets {
		labels = append(labels, bracket.label)
	}
	labels = append(labels, topBracketLabel)

	counts := make(map[string]*AmountBucket, len(labels))
	for _, label := range labels {
		counts[label] = &AmountBucket{Label: label}
	}

	seen := false
	for i, amount := range ds.Amounts {
		if amount == nil {
			continue
		}
		seen = true
		bucket := counts[bracketLabel(*amount)]
		bucket.Transactions++
		if ds.Actual[i] {
			bucket.ActualFraud++
		}
	}
	if !seen {
		return nil
	}

	buckets := make([]AmountBucket, 0, len(labels))
	for _, label := range labels {
		bucket := counts[label]
		bucket.FraudPercentage = mathutil.CalculatePercentage(float64(bucket.ActualFraud), float64(bucket.Transactions))
		buckets = append(buckets, *bucket)
	}
	return buckets
}

func hourlyPatterns(ds *dataset.Dataset) []HourlyStat {
	var hours [constants.HoursPerDay]HourlyStat
	seen := false
	for i, elapsed := range ds.Times {
		if elapsed == nil || *elapsed < 0 {
			continue
		}
		seen = true
		hour := int(*elapsed/constants.SecondsPerHour) % constants.HoursPerDay
		hours[hour].Transactions++
		if ds.Actual[i] {
			hours[hour].ActualFraud++
		}
	}
	if !seen {
		return nil
	}

	patterns := make([]HourlyStat, constants.HoursPerDay)
	for hour := range hours {
		stat := hours[hour]
		stat.Hour = hour
		if stat.Transactions > 0 {
			stat.FraudRate = float64(stat.ActualFraud) / float64(stat.Transactions)
		}
		patterns[hour] = stat
	}
	return patterns
}
