// Package metrics derives confusion-matrix counts and the standard
// performance ratios from aligned actual/predicted label pairs. Every ratio
// with a zero denominator is defined as 0 through an explicit guard; the
// package never relies on floating-point NaN or Inf propagation.
package metrics

import "github.com/iwvelando/fraud-metrics/pkg/series"

// ConfusionMatrix holds the four outcome counts from comparing actual against
// predicted binary labels. It is a derived value, recomputed per call and
// never cached or mutated in place.
type ConfusionMatrix struct {
	TP int
	FP int
	TN int
	FN int
}

// Total returns the number of fully-present pairs that were classified.
func (m ConfusionMatrix) Total() int {
	return m.TP + m.FP + m.TN + m.FN
}

// Precision returns TP/(TP+FP), or 0 when no positive predictions exist.
func (m ConfusionMatrix) Precision() float64 {
	denominator := m.TP + m.FP
	if denominator == 0 {
		return 0
	}
	return float64(m.TP) / float64(denominator)
}

// Recall returns TP/(TP+FN), or 0 when no actual positives exist.
func (m ConfusionMatrix) Recall() float64 {
	denominator := m.TP + m.FN
	if denominator == 0 {
		return 0
	}
	return float64(m.TP) / float64(denominator)
}

// Accuracy returns (TP+TN)/total, or 0 for an empty matrix.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.TP+m.TN) / float64(total)
}

// F1 computes the harmonic mean of already-computed precision and recall.
// It is deliberately a standalone two-argument function so callers holding
// precision and recall from elsewhere can use it without rebuilding a matrix.
// Returns 0 when precision+recall is 0.
func F1(precision, recall float64) float64 {
	sum := precision + recall
	if sum == 0 {
		return 0
	}
	return 2 * precision * recall / sum
}

// Summary bundles a confusion matrix with its derived ratios.
type Summary struct {
	Matrix    ConfusionMatrix
	Precision float64
	Recall    float64
	Accuracy  float64
	F1        float64
}

// Confusion classifies every fully-present (actual, predicted) pair by the
// standard truth table. It fails with series.LengthMismatchError when the two
// sequences differ in length; no partial matrix is returned in that case.
func Confusion(actual []bool, predicted []*bool) (ConfusionMatrix, error) {
	aligned, err := series.FromLabels(actual, predicted)
	if err != nil {
		return ConfusionMatrix{}, err
	}
	return ConfusionFromSeries(aligned), nil
}

// ConfusionFromSeries classifies the fully-present pairs of an already-built
// series. Records without a predicted label are excluded from every count.
func ConfusionFromSeries(aligned series.Aligned) ConfusionMatrix {
	var matrix ConfusionMatrix
	for _, record := range aligned.Records {
		if record.Predicted == nil {
			continue
		}
		switch {
		case record.Actual && *record.Predicted:
			matrix.TP++
		case !record.Actual && *record.Predicted:
			matrix.FP++
		case !record.Actual && !*record.Predicted:
			matrix.TN++
		default:
			matrix.FN++
		}
	}
	return matrix
}

// Evaluate computes the confusion matrix and all derived ratios for the given
// actual/predicted sequences.
func Evaluate(actual []bool, predicted []*bool) (Summary, error) {
	matrix, err := Confusion(actual, predicted)
	if err != nil {
		return Summary{}, err
	}
	return EvaluateMatrix(matrix), nil
}

// EvaluateMatrix derives the performance ratios from an existing matrix.
func EvaluateMatrix(matrix ConfusionMatrix) Summary {
	precision := matrix.Precision()
	recall := matrix.Recall()
	return Summary{
		Matrix:    matrix,
		Precision: precision,
		Recall:    recall,
		Accuracy:  matrix.Accuracy(),
		F1:        F1(precision, recall),
	}
}
