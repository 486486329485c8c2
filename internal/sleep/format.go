package sleep

import "fmt"

// Display bands for quality and debt values. Consumers map these to
// colors; the thresholds live here so they stay consistent across UIs.
const (
	BandGood     = "good"
	BandMedium   = "medium"
	BandPoor     = "poor"
	BandElevated = "elevated"
	BandSevere   = "severe"
)

// FormatDuration renders minutes as "0m", "8h" or "2h 5m".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// QualityBand maps a 0-100 quality score to a display band:
// >=80 good, 60-79 medium, below 60 poor.
func QualityBand(quality int) string {
	switch {
	case quality >= 80:
		return BandGood
	case quality >= 60:
		return BandMedium
	default:
		return BandPoor
	}
}

// DebtBand maps a signed debt to a band by absolute hours: <=2 good,
// <=5 medium, <=8 elevated, beyond that severe. Surplus and deficit
// band symmetrically.
func DebtBand(debtMin int) string {
	hours := float64(abs(debtMin)) / 60
	switch {
	case hours <= 2:
		return BandGood
	case hours <= 5:
		return BandMedium
	case hours <= 8:
		return BandElevated
	default:
		return BandSevere
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
