// Package series builds validated, positionally-aligned record collections
// from the parallel label, probability, and amount sequences produced by the
// upstream scoring pipeline. All downstream calculators consume an Aligned
// rather than raw slices so that cardinality is checked exactly once, before
// any aggregation begins.
package series

import "fmt"

// Record is a single transaction observation. Actual is always present; the
// remaining fields are nil when the upstream export carried no value. A record
// missing a field required by a given computation is excluded from that
// computation entirely, never treated as zero.
type Record struct {
	Actual      bool
	Predicted   *bool
	Probability *float64
	Amount      *float64
}

// Aligned is an ordered collection of Records built from positionally-aligned
// input sequences of identical length. Construct it through the From*
// functions; they reject mismatched cardinalities up front.
type Aligned struct {
	Records []Record
}

// Len returns the number of records in the series.
func (a Aligned) Len() int {
	return len(a.Records)
}

// LengthMismatchError reports input sequences whose cardinalities disagree.
// It is the only failure any multi-sequence entry point produces; every other
// anomaly (missing fields, zero denominators) is a defined outcome.
type LengthMismatchError struct {
	Sequence string
	Got      int
	Want     int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("sequence %q has %d entries, expected %d", e.Sequence, e.Got, e.Want)
}

// FromLabels pairs actual labels with predicted labels.
func FromLabels(actual []bool, predicted []*bool) (Aligned, error) {
	if len(predicted) != len(actual) {
		return Aligned{}, &LengthMismatchError{Sequence: "predicted", Got: len(predicted), Want: len(actual)}
	}

	records := make([]Record, len(actual))
	for i := range actual {
		records[i] = Record{Actual: actual[i], Predicted: predicted[i]}
	}
	return Aligned{Records: records}, nil
}

// FromLabeledAmounts pairs actual labels, predicted labels, and transaction
// amounts for cost evaluation under a fixed decision rule.
func FromLabeledAmounts(actual []bool, predicted []*bool, amounts []*float64) (Aligned, error) {
	if len(predicted) != len(actual) {
		return Aligned{}, &LengthMismatchError{Sequence: "predicted", Got: len(predicted), Want: len(actual)}
	}
	if len(amounts) != len(actual) {
		return Aligned{}, &LengthMismatchError{Sequence: "amounts", Got: len(amounts), Want: len(actual)}
	}

	records := make([]Record, len(actual))
	for i := range actual {
		records[i] = Record{Actual: actual[i], Predicted: predicted[i], Amount: amounts[i]}
	}
	return Aligned{Records: records}, nil
}

// FromProbabilities pairs actual labels, fraud probabilities, and transaction
// amounts for threshold sweeping.
func FromProbabilities(actual []bool, probabilities []*float64, amounts []*float64) (Aligned, error) {
	if len(probabilities) != len(actual) {
		return Aligned{}, &LengthMismatchError{Sequence: "probabilities", Got: len(probabilities), Want: len(actual)}
	}
	if len(amounts) != len(actual) {
		return Aligned{}, &LengthMismatchError{Sequence: "amounts", Got: len(amounts), Want: len(actual)}
	}

	records := make([]Record, len(actual))
	for i := range actual {
		records[i] = Record{Actual: actual[i], Probability: probabilities[i], Amount: amounts[i]}
	}
	return Aligned{Records: records}, nil
}

// ApplyThreshold returns a fresh series in which each record's Predicted label
// is derived from its Probability via predicted = (probability >= threshold).
// Records without a probability keep a nil Predicted and therefore stay
// excluded from label-based calculations. The receiver is not modified.
func (a Aligned) ApplyThreshold(threshold float64) Aligned {
	records := make([]Record, len(a.Records))
	for i, record := range a.Records {
		derived := record
		derived.Predicted = nil
		if record.Probability != nil {
			positive := *record.Probability >= threshold
			derived.Predicted = &positive
		}
		records[i] = derived
	}
	return Aligned{Records: records}
}
