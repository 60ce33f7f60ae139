// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/maintenance-budget/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Only used for display; stored values are never rounded.
func Round(val float64) float64 {
	return RoundTo(val, 2)
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// Fraction returns value/total clamped to [0, 1], for sizing bars.
func Fraction(value, total float64) float64 {
	if total <= 0 || value <= 0 {
		return 0
	}
	f := value / total
	if f > 1 {
		return 1
	}
	return f
}
