// Package constants provides shared constants for the fraud-metrics application.
package constants

// Decision constants
const (
	// DefaultDecisionThreshold is the probability cutoff used for the fixed
	// decision rule when the configuration does not override it.
	DefaultDecisionThreshold = 0.5

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Time constants for deriving hour-of-day from the export's elapsed-seconds column
const (
	// SecondsPerHour is the number of seconds in an hour
	SecondsPerHour = 3600

	// HoursPerDay is the number of hours in a day
	HoursPerDay = 24
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "fraud-metrics.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the evaluation API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for prediction CSVs (16 MB)
	DefaultMaxUploadSizeBytes int64 = 16 * 1024 * 1024
)
