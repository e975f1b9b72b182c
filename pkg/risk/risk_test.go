package risk

import (
	"errors"
	"testing"

	"github.com/iwvelando/fraud-metrics/pkg/series"
	"github.com/iwvelando/fraud-metrics/pkg/testutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		expected    Band
	}{
		{
			name:        "High risk",
			probability: 0.75,
			expected:    BandHigh,
		},
		{
			name:        "Medium risk",
			probability: 0.5,
			expected:    BandMedium,
		},
		{
			name:        "Low risk",
			probability: 0.1,
			expected:    BandLow,
		},
		{
			name:        "Medium lower bound is inclusive",
			probability: 0.3,
			expected:    BandMedium,
		},
		{
			name:        "High lower bound is inclusive",
			probability: 0.7,
			expected:    BandHigh,
		},
		{
			name:        "Zero",
			probability: 0,
			expected:    BandLow,
		},
		{
			name:        "Out of domain above",
			probability: 1.7,
			expected:    BandHigh,
		},
		{
			name:        "Out of domain below",
			probability: -0.2,
			expected:    BandLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.probability); got != tt.expected {
				t.Errorf("Classify(%v) = %q, expected %q", tt.probability, got, tt.expected)
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	actual := []bool{true, false, true, false, false, true}
	probabilities := []*float64{
		testutil.FloatPtr(0.9),  // high, fraud
		testutil.FloatPtr(0.75), // high
		testutil.FloatPtr(0.4),  // medium, fraud
		testutil.FloatPtr(0.1),  // low
		nil,                     // skipped
		testutil.FloatPtr(0.3),  // medium, fraud
	}

	distribution, err := Distribution(actual, probabilities)
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}

	if len(distribution) != 3 {
		t.Fatalf("Distribution() returned %d bands, expected 3", len(distribution))
	}

	expectedOrder := []Band{BandLow, BandMedium, BandHigh}
	for i, band := range expectedOrder {
		if distribution[i].Band != band {
			t.Errorf("band %d = %q, expected %q", i, distribution[i].Band, band)
		}
	}

	low, medium, high := distribution[0], distribution[1], distribution[2]
	if low.Transactions != 1 || low.ActualFraud != 0 {
		t.Errorf("low band = %+v, expected 1 transaction, 0 fraud", low)
	}
	if medium.Transactions != 2 || medium.ActualFraud != 2 {
		t.Errorf("medium band = %+v, expected 2 transactions, 2 fraud", medium)
	}
	if high.Transactions != 2 || high.ActualFraud != 1 {
		t.Errorf("high band = %+v, expected 2 transactions, 1 fraud", high)
	}

	if medium.FraudPercentage != 100 {
		t.Errorf("medium fraud percentage = %v, expected 100", medium.FraudPercentage)
	}
	if high.FraudPercentage != 50 {
		t.Errorf("high fraud percentage = %v, expected 50", high.FraudPercentage)
	}
}

func TestDistributionEmptyBandsHaveZeroPercentage(t *testing.T) {
	distribution, err := Distribution(nil, nil)
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}

	for _, band := range distribution {
		if band.Transactions != 0 || band.FraudPercentage != 0 {
			t.Errorf("empty band %q = %+v, expected zeros", band.Band, band)
		}
	}
}

func TestDistributionLengthMismatch(t *testing.T) {
	_, err := Distribution([]bool{true, false}, []*float64{testutil.FloatPtr(0.5)})
	var mismatch *series.LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Distribution() error = %v, expected LengthMismatchError", err)
	}
}
