// Package risk maps fraud probabilities to the three-band risk labels used
// throughout the reporting layer.
package risk

import (
	"github.com/iwvelando/fraud-metrics/pkg/mathutil"
	"github.com/iwvelando/fraud-metrics/pkg/series"
)

// Band is a discrete risk label derived from a continuous probability.
type Band string

const (
	BandLow    Band = "Low Risk"
	BandMedium Band = "Medium Risk"
	BandHigh   Band = "High Risk"
)

// Fixed cut points; both are inclusive lower bounds of their band.
const (
	MediumCutoff = 0.3
	HighCutoff   = 0.7
)

// Classify maps one probability to its risk band. It is pure and stateless
// and accepts any real value; responsibility for the [0,1] domain rests with
// the caller.
func Classify(probability float64) Band {
	switch {
	case probability >= HighCutoff:
		return BandHigh
	case probability >= MediumCutoff:
		return BandMedium
	default:
		return BandLow
	}
}

// BandStats aggregates the transactions falling into one risk band.
type BandStats struct {
	Band            Band
	Transactions    int
	ActualFraud     int
	FraudPercentage float64
}

// Distribution aggregates per-band transaction and fraud counts, ordered Low,
// Medium, High. Records without a probability are skipped. It fails with
// series.LengthMismatchError when the sequences differ in length.
func Distribution(actual []bool, probabilities []*float64) ([]BandStats, error) {
	if len(probabilities) != len(actual) {
		return nil, &series.LengthMismatchError{Sequence: "probabilities", Got: len(probabilities), Want: len(actual)}
	}

	order := []Band{BandLow, BandMedium, BandHigh}
	counts := make(map[Band]*BandStats, len(order))
	for _, band := range order {
		counts[band] = &BandStats{Band: band}
	}

	for i, probability := range probabilities {
		if probability == nil {
			continue
		}
		stats := counts[Classify(*probability)]
		stats.Transactions++
		if actual[i] {
			stats.ActualFraud++
		}
	}

	distribution := make([]BandStats, 0, len(order))
	for _, band := range order {
		stats := counts[band]
		stats.FraudPercentage = mathutil.CalculatePercentage(float64(stats.ActualFraud), float64(stats.Transactions))
		distribution = append(distribution, *stats)
	}
	return distribution, nil
}
