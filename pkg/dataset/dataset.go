// Package dataset reads the prediction export CSV produced by the upstream
// scoring pipeline into the parallel sequences the calculators consume.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Columns maps logical fields to CSV header names. Actual is required; any
// other column may be absent from the file, in which case every record simply
// lacks that field.
type Columns struct {
	Actual      string
	Predicted   string
	Probability string
	Amount      string
	Time        string
}

// DefaultColumns returns the header names used by the pipeline's standard
// prediction export.
func DefaultColumns() Columns {
	return Columns{
		Actual:      "Class",
		Predicted:   "predicted_class",
		Probability: "predicted_proba",
		Amount:      "Amount",
		Time:        "Time",
	}
}

// Dataset holds the positionally-aligned sequences read from one export. The
// slices always share the same length, one entry per data row.
type Dataset struct {
	Actual        []bool
	Predicted     []*bool
	Probabilities []*float64
	Amounts       []*float64
	Times         []*float64
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.Actual)
}

// Load reads a prediction export from the given path.
func Load(path string, columns Columns) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	ds, err := Read(file, columns)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a prediction export from r. The first row must be a header
// containing at least the actual-label column; unknown columns are ignored.
// Empty cells become missing fields rather than zeros.
func Read(r io.Reader, columns Columns) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := headerIndex(header)
	actualCol, ok := index[strings.ToLower(columns.Actual)]
	if !ok {
		return nil, fmt.Errorf("dataset is missing required column %q", columns.Actual)
	}
	predictedCol, hasPredicted := index[strings.ToLower(columns.Predicted)]
	probabilityCol, hasProbability := index[strings.ToLower(columns.Probability)]
	amountCol, hasAmount := index[strings.ToLower(columns.Amount)]
	timeCol, hasTime := index[strings.ToLower(columns.Time)]

	ds := &Dataset{}
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		row++

		actual, err := parseLabel(field(record, actualCol))
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", row, columns.Actual, err)
		}
		if actual == nil {
			return nil, fmt.Errorf("row %d column %q: actual label is required", row, columns.Actual)
		}
		ds.Actual = append(ds.Actual, *actual)

		var predicted *bool
		if hasPredicted {
			predicted, err = parseLabel(field(record, predictedCol))
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, columns.Predicted, err)
			}
		}
		ds.Predicted = append(ds.Predicted, predicted)

		var probability *float64
		if hasProbability {
			probability, err = parseValue(field(record, probabilityCol))
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, columns.Probability, err)
			}
		}
		ds.Probabilities = append(ds.Probabilities, probability)

		var amount *float64
		if hasAmount {
			amount, err = parseValue(field(record, amountCol))
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, columns.Amount, err)
			}
		}
		ds.Amounts = append(ds.Amounts, amount)

		var elapsed *float64
		if hasTime {
			elapsed, err = parseValue(field(record, timeCol))
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, columns.Time, err)
			}
		}
		ds.Times = append(ds.Times, elapsed)
	}

	return ds, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func field(record []string, column int) string {
	if column < 0 || column >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[column])
}

func missing(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}

// parseLabel reads a binary label cell. The sklearn exports write labels as
// 0/1 but occasionally as 0.0/1.0, so fall back to numeric parsing.
func parseLabel(cell string) (*bool, error) {
	if missing(cell) {
		return nil, nil
	}
	if parsed, err := strconv.ParseBool(cell); err == nil {
		return &parsed, nil
	}
	numeric, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid label %q", cell)
	}
	label := numeric != 0
	return &label, nil
}

func parseValue(cell string) (*float64, error) {
	if missing(cell) {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q", cell)
	}
	return &parsed, nil
}
