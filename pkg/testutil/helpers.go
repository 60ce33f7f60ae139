// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/maintenance-budget/internal/budget"
)

// Tolerance is the absolute difference accepted when comparing currency
// amounts produced by floating point arithmetic.
const Tolerance = 1e-6

// ReferenceAsset returns the sample asset used throughout the documentation:
// 600 m2, 45 guests, built in 1990, 450,000 of yearly revenue, no equipment.
func ReferenceAsset() budget.AssetInput {
	return budget.AssetInput{
		GrossArea:        600,
		Capacity:         45,
		ConstructionYear: 1990,
		AnnualRevenue:    450000,
	}
}

// WithEquipment returns a copy of in with the given flags added.
func WithEquipment(in budget.AssetInput, flags ...budget.Flag) budget.AssetInput {
	for _, f := range flags {
		in.Equipment = in.Equipment.With(f)
	}
	return in
}

// AlmostEqual reports whether a and b differ by no more than Tolerance.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// EquipmentSubsets enumerates every combination of the equipment vocabulary,
// starting with the empty set.
func EquipmentSubsets() []budget.Equipment {
	catalog := budget.Catalog()
	subsets := make([]budget.Equipment, 0, 1<<len(catalog))
	for mask := 0; mask < 1<<len(catalog); mask++ {
		var e budget.Equipment
		for i, rate := range catalog {
			if mask&(1<<i) != 0 {
				e = e.With(rate.Flag)
			}
		}
		subsets = append(subsets, e)
	}
	return subsets
}
