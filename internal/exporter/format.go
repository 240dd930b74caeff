package exporter

import (
	"math"
	"strconv"
)

// formatFloat renders v with the fewest digits that parse back to the same value.
// NaN renders empty.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
