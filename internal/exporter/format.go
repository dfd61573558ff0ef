package exporter

import (
	"strconv"

	"numsummary/pkg/contracts/domain"
)

// formatFloat renders v in the shortest form that parses back to the same
// float64. Missing and NaN values render empty.
func formatFloat(v domain.OptionalFloat) string {
	if v.IsMissing() {
		return ""
	}
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

// formatFixed renders v with a fixed number of decimals, or marker when
// the value is missing
func formatFixed(v domain.OptionalFloat, precision int, marker string) string {
	if v.IsMissing() {
		return marker
	}
	return strconv.FormatFloat(v.Value, 'f', precision, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
