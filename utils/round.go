// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"strconv"
)

// Round rounds x to the given number of decimal places.
//
// Ties are resolved on the exact binary value of x (half-even), which is how
// the durations in metadata_extracted.csv have always been published:
// Round(1.0005, 3) is 1.0 because 1.0005 is stored as 1.000499999...
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if places < 0 {
		places = 0
	}

	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// FormatDecimal renders x with the shortest representation that round-trips,
// always keeping at least one fractional digit (2 -> "2.0").
func FormatDecimal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
