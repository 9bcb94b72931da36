package util

import (
	"fmt"
	"math"
)

// Cents rounds a dollar amount to the nearest cent and returns it as int64
// cents. Rounding happens at every derived pricing stage, not only at
// display time, so repeated recomputation never accumulates float drift.
func Cents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// RoundCents rounds a fractional cent amount to a whole cent
func RoundCents(cents float64) int64 {
	return int64(math.Round(cents))
}

// FormatUSD formats an integer cent amount as a string like "$12.50"
func FormatUSD(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}
