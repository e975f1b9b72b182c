// Package testutil provides common utility functions for testing.
package testutil

// BoolPtr returns a pointer to the given label.
func BoolPtr(v bool) *bool {
	return &v
}

// FloatPtr returns a pointer to the given value.
func FloatPtr(v float64) *float64 {
	return &v
}

// BoolPtrs converts a slice of labels into the pointer form the calculators
// consume, with every entry present.
func BoolPtrs(values []bool) []*bool {
	out := make([]*bool, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

// FloatPtrs converts a slice of values into the pointer form the calculators
// consume, with every entry present.
func FloatPtrs(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}
