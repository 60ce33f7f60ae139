// Package budget implements the parametric maintenance budget model: it turns
// the physical and financial attributes of a building into an annual
// ordinary-maintenance amount, an extraordinary-reserve accrual and a
// revenue incidence used to flag financial risk.
//
// Evaluate is a pure function. It reads no package state besides constants
// and is safe to call from any number of goroutines.
package budget

import "math"

// AssetInput holds the attributes of the building being evaluated.
type AssetInput struct {
	GrossArea        float64   `json:"grossArea"`        // square meters
	Capacity         int       `json:"capacity"`         // occupants served
	ConstructionYear int       `json:"constructionYear"` // must not be after ReferenceYear
	AnnualRevenue    float64   `json:"annualRevenue"`    // currency units
	Equipment        Equipment `json:"equipment"`
}

// BudgetResult holds every intermediate value of an evaluation alongside the
// final amounts, so each step can be shown and checked independently.
type BudgetResult struct {
	ReconstructionValue     float64 `json:"reconstructionValue"`
	BuildingAge             int     `json:"buildingAge"`
	VetustyCoefficient      float64 `json:"kv"`
	OccupancyDensity        float64 `json:"occupancyDensity"`
	DensityCoefficient      float64 `json:"kd"`
	DeltaOrdinaryRate       float64 `json:"deltaOrdinaryRate"`
	DeltaExtraordinaryRate  float64 `json:"deltaExtraordinaryRate"`
	OrdinaryMaintenance     float64 `json:"ordinaryMaintenance"`
	ExtraordinaryReserve    float64 `json:"extraordinaryReserve"`
	TotalBudget             float64 `json:"totalBudget"`
	RevenueIncidencePercent float64 `json:"revenueIncidencePercent"`
	IsCritical              bool    `json:"isCritical"`
}

// CostSplit is the three-way partition of annual revenue used for
// proportional charts. ResidualMargin is negative when the budget exceeds
// revenue; it is never clamped.
type CostSplit struct {
	OrdinaryMaintenance  float64 `json:"ordinaryMaintenance"`
	ExtraordinaryReserve float64 `json:"extraordinaryReserve"`
	ResidualMargin       float64 `json:"residualMargin"`
}

// Evaluate computes the budget for in. It fails only with an error matching
// ErrInvalidInput, and never returns a partial result.
func Evaluate(in AssetInput) (BudgetResult, error) {
	if err := in.Validate(); err != nil {
		return BudgetResult{}, err
	}

	var r BudgetResult
	r.ReconstructionValue = in.GrossArea * UnitReconstructionValue
	r.BuildingAge = ReferenceYear - in.ConstructionYear
	r.VetustyCoefficient = VetustyCoefficient(r.BuildingAge)
	r.OccupancyDensity = in.GrossArea / float64(in.Capacity)
	r.DensityCoefficient = DensityCoefficient(r.OccupancyDensity)
	r.DeltaOrdinaryRate, r.DeltaExtraordinaryRate = in.Equipment.Rates()

	// Density drives ordinary wear only; the structural reserve ignores it.
	r.OrdinaryMaintenance = r.ReconstructionValue*r.VetustyCoefficient*r.DensityCoefficient*OrdinaryBaseRate +
		r.ReconstructionValue*r.DeltaOrdinaryRate
	r.ExtraordinaryReserve = r.ReconstructionValue*r.VetustyCoefficient*ExtraordinaryBaseRate +
		r.ReconstructionValue*r.DeltaExtraordinaryRate

	r.TotalBudget = r.OrdinaryMaintenance + r.ExtraordinaryReserve
	r.RevenueIncidencePercent = (r.TotalBudget / in.AnnualRevenue) * PercentMultiplier
	r.IsCritical = r.RevenueIncidencePercent > IncidenceThresholdPercent

	return r, nil
}

// Validate checks the invariants Evaluate depends on.
func (in AssetInput) Validate() error {
	if math.IsNaN(in.GrossArea) || math.IsInf(in.GrossArea, 0) {
		return invalid("grossArea", "must be a finite number")
	}
	if in.GrossArea <= 0 {
		return invalid("grossArea", "must be positive, got %g", in.GrossArea)
	}
	if in.Capacity <= 0 {
		return invalid("capacity", "must be positive, got %d", in.Capacity)
	}
	if in.ConstructionYear > ReferenceYear {
		return invalid("constructionYear", "must not be after %d, got %d", ReferenceYear, in.ConstructionYear)
	}
	if math.IsNaN(in.AnnualRevenue) || math.IsInf(in.AnnualRevenue, 0) {
		return invalid("annualRevenue", "must be a finite number")
	}
	if in.AnnualRevenue <= 0 {
		return invalid("annualRevenue", "must be positive, got %g", in.AnnualRevenue)
	}
	return nil
}

// VetustyCoefficient maps a building age in years to kv.
func VetustyCoefficient(age int) float64 {
	switch {
	case age < AgeBandYoungUpper:
		return VetustyYoung
	case age <= AgeBandMiddleUpper:
		return VetustyMiddle
	default:
		return VetustyOld
	}
}

// DensityCoefficient maps square meters per occupant to kd.
func DensityCoefficient(density float64) float64 {
	switch {
	case density > DensityBandUpperEdge:
		return DensitySparse
	case density >= DensityBandLowerEdge:
		return DensityModerate
	default:
		return DensityCrowded
	}
}

// Split partitions annualRevenue into ordinary maintenance, extraordinary
// reserve and what is left over.
func (r BudgetResult) Split(annualRevenue float64) CostSplit {
	return CostSplit{
		OrdinaryMaintenance:  r.OrdinaryMaintenance,
		ExtraordinaryReserve: r.ExtraordinaryReserve,
		ResidualMargin:       annualRevenue - r.TotalBudget,
	}
}
