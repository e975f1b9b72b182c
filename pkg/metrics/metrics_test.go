package metrics

import (
	"errors"
	"testing"

	"github.com/iwvelando/fraud-metrics/pkg/mathutil"
	"github.com/iwvelando/fraud-metrics/pkg/series"
	"github.com/iwvelando/fraud-metrics/pkg/testutil"
)

func TestEvaluateReferenceScenario(t *testing.T) {
	// actual=[1,0,1,0], predicted=[1,0,0,0]
	actual := []bool{true, false, true, false}
	predicted := testutil.BoolPtrs([]bool{true, false, false, false})

	summary, err := Evaluate(actual, predicted)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	expected := ConfusionMatrix{TP: 1, FP: 0, TN: 2, FN: 1}
	if summary.Matrix != expected {
		t.Fatalf("Evaluate() matrix = %+v, expected %+v", summary.Matrix, expected)
	}
	if summary.Precision != 1.0 {
		t.Errorf("precision = %v, expected 1.0", summary.Precision)
	}
	if summary.Recall != 0.5 {
		t.Errorf("recall = %v, expected 0.5", summary.Recall)
	}
	if summary.Accuracy != 0.75 {
		t.Errorf("accuracy = %v, expected 0.75", summary.Accuracy)
	}
	if !mathutil.WithinTolerance(summary.F1, 2.0/3.0, 1e-9) {
		t.Errorf("f1 = %v, expected %v", summary.F1, 2.0/3.0)
	}
}

func TestConfusionSkipsIncompletePairs(t *testing.T) {
	actual := []bool{true, false, true, false}
	predicted := []*bool{
		testutil.BoolPtr(true),
		nil,
		nil,
		testutil.BoolPtr(false),
	}

	matrix, err := Confusion(actual, predicted)
	if err != nil {
		t.Fatalf("Confusion() error = %v", err)
	}

	// Total must equal exactly the count of fully-present pairs.
	if matrix.Total() != 2 {
		t.Errorf("Total() = %d, expected 2", matrix.Total())
	}
	expected := ConfusionMatrix{TP: 1, TN: 1}
	if matrix != expected {
		t.Errorf("Confusion() = %+v, expected %+v", matrix, expected)
	}
}

func TestConfusionLengthMismatch(t *testing.T) {
	_, err := Confusion([]bool{true, false}, testutil.BoolPtrs([]bool{true}))
	var mismatch *series.LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Confusion() error = %v, expected LengthMismatchError", err)
	}
}

func TestRatiosWithZeroDenominators(t *testing.T) {
	tests := []struct {
		name              string
		matrix            ConfusionMatrix
		expectedPrecision float64
		expectedRecall    float64
		expectedAccuracy  float64
	}{
		{
			name:              "Empty matrix",
			matrix:            ConfusionMatrix{},
			expectedPrecision: 0,
			expectedRecall:    0,
			expectedAccuracy:  0,
		},
		{
			name:              "No positive predictions",
			matrix:            ConfusionMatrix{TN: 3, FN: 2},
			expectedPrecision: 0,
			expectedRecall:    0,
			expectedAccuracy:  0.6,
		},
		{
			name:              "No actual positives",
			matrix:            ConfusionMatrix{TN: 4, FP: 1},
			expectedPrecision: 0,
			expectedRecall:    0,
			expectedAccuracy:  0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matrix.Precision(); got != tt.expectedPrecision {
				t.Errorf("Precision() = %v, expected %v", got, tt.expectedPrecision)
			}
			if got := tt.matrix.Recall(); got != tt.expectedRecall {
				t.Errorf("Recall() = %v, expected %v", got, tt.expectedRecall)
			}
			if got := tt.matrix.Accuracy(); got != tt.expectedAccuracy {
				t.Errorf("Accuracy() = %v, expected %v", got, tt.expectedAccuracy)
			}
		})
	}
}

func TestF1Standalone(t *testing.T) {
	tests := []struct {
		name      string
		precision float64
		recall    float64
		expected  float64
	}{
		{
			name:      "Both zero",
			precision: 0,
			recall:    0,
			expected:  0,
		},
		{
			name:      "Perfect scores",
			precision: 1,
			recall:    1,
			expected:  1,
		},
		{
			name:      "Reference scenario values",
			precision: 1,
			recall:    0.5,
			expected:  2.0 / 3.0,
		},
		{
			name:      "Asymmetric",
			precision: 0.25,
			recall:    0.75,
			expected:  2 * 0.25 * 0.75 / (0.25 + 0.75),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := F1(tt.precision, tt.recall)
			if !mathutil.WithinTolerance(got, tt.expected, 1e-9) {
				t.Errorf("F1(%v, %v) = %v, expected %v", tt.precision, tt.recall, got, tt.expected)
			}
		})
	}
}

func TestRatiosStayInUnitInterval(t *testing.T) {
	matrices := []ConfusionMatrix{
		{TP: 5, FP: 3, TN: 7, FN: 2},
		{TP: 1},
		{FP: 4},
		{FN: 9},
		{TN: 6},
	}

	for _, matrix := range matrices {
		summary := EvaluateMatrix(matrix)
		for name, value := range map[string]float64{
			"precision": summary.Precision,
			"recall":    summary.Recall,
			"accuracy":  summary.Accuracy,
			"f1":        summary.F1,
		} {
			if value < 0 || value > 1 {
				t.Errorf("matrix %+v: %s = %v outside [0, 1]", matrix, name, value)
			}
		}
	}
}
