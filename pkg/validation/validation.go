// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/fraud-metrics/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateCostParameters rejects negative cost configuration. Zero values are
// valid; they simply make the corresponding misclassification free.
func ValidateCostParameters(perFalsePositive, falseNegativeMultiplier float64) error {
	if perFalsePositive < 0 {
		return fmt.Errorf("cost per false positive must be >= 0, got %.2f", perFalsePositive)
	}
	if falseNegativeMultiplier < 0 {
		return fmt.Errorf("false negative multiplier must be >= 0, got %.2f", falseNegativeMultiplier)
	}
	return nil
}

// ValidateDecisionThreshold returns human-readable warnings for threshold
// values that are legal but probably not what the operator intended.
func ValidateDecisionThreshold(threshold, gridMax float64) []string {
	var warnings []string

	if threshold < 0 || threshold > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"decision threshold %.2f is outside [0, 1]; every record will land on one side of the rule", threshold))
	}
	if threshold > gridMax {
		warnings = append(warnings, fmt.Sprintf(
			"decision threshold %.2f exceeds the optimizer grid maximum %.2f; the sweep cannot select a comparable cutoff", threshold, gridMax))
	}

	return warnings
}
