package costmodel

import (
	"context"
	"errors"
	"testing"

	"github.com/iwvelando/fraud-metrics/pkg/mathutil"
	"github.com/iwvelando/fraud-metrics/pkg/series"
	"github.com/iwvelando/fraud-metrics/pkg/testutil"
)

func TestTotalCostReferenceScenario(t *testing.T) {
	// actual=[1,0], predicted=[0,1], amount=[100,50], costPerFP=10, multiplier=2
	actual := []bool{true, false}
	predicted := testutil.BoolPtrs([]bool{false, true})
	amounts := testutil.FloatPtrs([]float64{100, 50})
	params := Parameters{PerFalsePositive: 10, FalseNegativeMultiplier: 2}

	breakdown, err := TotalCost(actual, predicted, amounts, params)
	if err != nil {
		t.Fatalf("TotalCost() error = %v", err)
	}

	if breakdown.FalsePositive != 10 {
		t.Errorf("false positive cost = %v, expected 10", breakdown.FalsePositive)
	}
	if breakdown.FalseNegative != 200 {
		t.Errorf("false negative cost = %v, expected 200", breakdown.FalseNegative)
	}
	if breakdown.Total() != 210 {
		t.Errorf("total = %v, expected 210", breakdown.Total())
	}
}

func TestTotalCostLinearity(t *testing.T) {
	actual := []bool{true, false, true, false}
	predicted := testutil.BoolPtrs([]bool{false, true, true, true})
	amounts := testutil.FloatPtrs([]float64{80, 10, 20, 30})
	params := Parameters{PerFalsePositive: 5, FalseNegativeMultiplier: 1.5}

	base, err := TotalCost(actual, predicted, amounts, params)
	if err != nil {
		t.Fatalf("TotalCost() error = %v", err)
	}

	// Doubling the false positive fee exactly doubles that component.
	doubledFee, err := TotalCost(actual, predicted, amounts,
		Parameters{PerFalsePositive: 10, FalseNegativeMultiplier: 1.5})
	if err != nil {
		t.Fatalf("TotalCost() error = %v", err)
	}
	if doubledFee.FalsePositive != 2*base.FalsePositive {
		t.Errorf("doubled fee cost = %v, expected %v", doubledFee.FalsePositive, 2*base.FalsePositive)
	}
	if doubledFee.FalseNegative != base.FalseNegative {
		t.Errorf("false negative component changed: %v != %v", doubledFee.FalseNegative, base.FalseNegative)
	}

	// Doubling a missed fraud's amount exactly doubles its contribution.
	doubledAmounts := testutil.FloatPtrs([]float64{160, 10, 20, 30})
	doubledAmount, err := TotalCost(actual, predicted, doubledAmounts, params)
	if err != nil {
		t.Fatalf("TotalCost() error = %v", err)
	}
	if doubledAmount.FalseNegative != 2*base.FalseNegative {
		t.Errorf("doubled amount cost = %v, expected %v", doubledAmount.FalseNegative, 2*base.FalseNegative)
	}
}

func TestTotalCostSkipsIncompleteRecords(t *testing.T) {
	actual := []bool{true, true, false, false}
	predicted := []*bool{
		testutil.BoolPtr(false), // false negative, amount missing: contributes 0
		nil,                     // no prediction: skipped entirely
		testutil.BoolPtr(true),  // false positive, needs no amount
		testutil.BoolPtr(false), // true negative
	}
	amounts := []*float64{nil, testutil.FloatPtr(500), nil, nil}
	params := Parameters{PerFalsePositive: 10, FalseNegativeMultiplier: 2}

	breakdown, err := TotalCost(actual, predicted, amounts, params)
	if err != nil {
		t.Fatalf("TotalCost() error = %v", err)
	}

	if breakdown.FalseNegative != 0 {
		t.Errorf("false negative cost = %v, expected 0 for missing amount", breakdown.FalseNegative)
	}
	if breakdown.FalsePositive != 10 {
		t.Errorf("false positive cost = %v, expected 10", breakdown.FalsePositive)
	}
}

func TestTotalCostLengthMismatch(t *testing.T) {
	actual := []bool{true, false}
	predicted := testutil.BoolPtrs([]bool{true, false})

	_, err := TotalCost(actual, predicted, testutil.FloatPtrs([]float64{100}), Parameters{})
	var mismatch *series.LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("TotalCost() error = %v, expected LengthMismatchError", err)
	}
}

func TestCostFromSeriesContextCancellation(t *testing.T) {
	aligned, err := series.FromLabeledAmounts(
		[]bool{true, false},
		testutil.BoolPtrs([]bool{false, true}),
		testutil.FloatPtrs([]float64{100, 50}),
	)
	if err != nil {
		t.Fatalf("FromLabeledAmounts() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = CostFromSeriesContext(ctx, aligned, Parameters{PerFalsePositive: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CostFromSeriesContext() error = %v, expected context.Canceled", err)
	}
}

func TestZeroParametersAreFree(t *testing.T) {
	actual := []bool{true, false}
	predicted := testutil.BoolPtrs([]bool{false, true})
	amounts := testutil.FloatPtrs([]float64{100, 50})

	breakdown, err := TotalCost(actual, predicted, amounts, Parameters{})
	if err != nil {
		t.Fatalf("TotalCost() error = %v", err)
	}
	if !mathutil.IsZero(breakdown.Total()) {
		t.Errorf("total = %v, expected 0 under zero parameters", breakdown.Total())
	}
}
