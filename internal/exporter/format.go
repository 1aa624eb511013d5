package exporter

import (
	"strconv"

	"floodctl/internal/stats"
)

// formatFloat renders a value for canonical output: rounded half away from
// zero to 2 decimals, always with exactly 2 decimal digits (13.4 → "13.40").
func formatFloat(v float64) string {
	return strconv.FormatFloat(stats.Round2(v), 'f', 2, 64)
}

// formatOptionalFloat renders a nullable value; nil becomes the empty cell,
// never "0.00".
func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatInt renders an integer cell.
func formatInt(i int) string {
	return strconv.Itoa(i)
}
