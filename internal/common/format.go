package common

import (
	"fmt"
	"math"
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatEPS formats an earnings-per-share value as dollars, e.g. "$2.40".
func FormatEPS(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatSignedPct formats a percentage with one decimal and a +/- prefix.
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// FormatAbsPct formats the magnitude of a percentage with one decimal.
func FormatAbsPct(v float64) string {
	return fmt.Sprintf("%.1f%%", math.Abs(v))
}

// Plural returns "" for one and "s" otherwise.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
