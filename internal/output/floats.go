package output

import (
	"math"
	"strconv"
	"strings"
)

// RoundFloat rounds a float to 6 decimal places.
func RoundFloat(f float64) float64 {
	const multiplier = 1e6
	return math.Round(f*multiplier) / multiplier
}

// FormatFloat formats a float with no trailing zeros.
func FormatFloat(f float64) string {
	str := strconv.FormatFloat(RoundFloat(f), 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	return strings.TrimRight(str, ".")
}

// Percent renders a ratio in [0,1] as "xx.x%".
func Percent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}
