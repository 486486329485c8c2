package sleep

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{480, "8h"},
		{125, "2h 5m"},
		{61, "1h 1m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestQualityBand(t *testing.T) {
	tests := []struct {
		quality int
		want    string
	}{
		{100, BandGood},
		{80, BandGood},
		{79, BandMedium},
		{60, BandMedium},
		{59, BandPoor},
		{0, BandPoor},
	}

	for _, tt := range tests {
		if got := QualityBand(tt.quality); got != tt.want {
			t.Errorf("QualityBand(%d) = %q, want %q", tt.quality, got, tt.want)
		}
	}
}

func TestDebtBand(t *testing.T) {
	tests := []struct {
		debtMin int
		want    string
	}{
		{0, BandGood},
		{120, BandGood},
		{121, BandMedium},
		{300, BandMedium},
		{301, BandElevated},
		{480, BandElevated},
		{481, BandSevere},
		// Surplus bands symmetrically.
		{-120, BandGood},
		{-481, BandSevere},
	}

	for _, tt := range tests {
		if got := DebtBand(tt.debtMin); got != tt.want {
			t.Errorf("DebtBand(%d) = %q, want %q", tt.debtMin, got, tt.want)
		}
	}
}
