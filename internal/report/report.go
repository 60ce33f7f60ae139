// Package report builds the presentation-neutral view of an evaluation:
// headline metrics, the revenue split and the justification table. Every
// output surface (terminal, CSV, JSON, HTTP, TUI) renders the same Report.
package report

import (
	"fmt"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/iwvelando/maintenance-budget/pkg/format"
	"github.com/iwvelando/maintenance-budget/pkg/mathutil"
	"github.com/iwvelando/maintenance-budget/pkg/validation"
)

// Variant selects how much detail the headline and split carry.
type Variant string

// Supported variants.
const (
	Compact  Variant = constants.VariantCompact
	Detailed Variant = constants.VariantDetailed
)

// Status values shown next to the incidence metric.
const (
	StatusOK       = "OK"
	StatusCritical = "CRITICAL"
)

// CriticalNotice is shown when the budget exceeds the sustainability threshold.
const CriticalNotice = "The maintenance cost exceeds the sustainability parameters for this type of asset."

// Metric is one headline figure.
type Metric struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status,omitempty"`
}

// Slice is one part of the revenue split. Amount may be negative for the
// residual margin.
type Slice struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Value   string  `json:"value"`
	Percent string  `json:"percent,omitempty"`
}

// Row is one line of the justification table.
type Row struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
	Basis     string `json:"basis,omitempty"`
}

// Report is the rendered-ready view of one evaluation.
type Report struct {
	Variant       Variant  `json:"variant"`
	Title         string   `json:"title"`
	Headline      []Metric `json:"headline"`
	Split         []Slice  `json:"split"`
	Justification []Row    `json:"justification"`
	Critical      bool     `json:"critical"`
	Notice        string   `json:"notice,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Title is the heading every surface shows above the report.
const Title = "Maintenance Budget"

// ParseVariant validates a variant name. An empty name selects Compact.
func ParseVariant(name string) (Variant, error) {
	if name == "" {
		return Compact, nil
	}
	if err := validation.ValidateVariant(name); err != nil {
		return "", err
	}
	return Variant(name), nil
}

// Build assembles the report for an input and its evaluation.
func Build(in budget.AssetInput, res budget.BudgetResult, v Variant) Report {
	if v == "" {
		v = Compact
	}

	r := Report{
		Variant:       v,
		Title:         Title,
		Headline:      headline(res, v),
		Split:         split(in, res, v),
		Justification: justification(in, res, v),
		Critical:      res.IsCritical,
		Warnings:      validation.AssetWarnings(in),
	}
	if res.IsCritical {
		r.Notice = CriticalNotice
	}
	return r
}

// Status returns the incidence status label for a result.
func Status(res budget.BudgetResult) string {
	if res.IsCritical {
		return StatusCritical
	}
	return StatusOK
}

func headline(res budget.BudgetResult, v Variant) []Metric {
	incidence := Metric{
		Label:  "Revenue incidence",
		Value:  format.Percent(res.RevenueIncidencePercent, 2),
		Status: Status(res),
	}

	if v == Detailed {
		return []Metric{
			{Label: "Reconstruction value", Value: format.Currency(res.ReconstructionValue)},
			{Label: "Ordinary maintenance", Value: format.Currency(res.OrdinaryMaintenance)},
			{Label: "Extraordinary reserve", Value: format.Currency(res.ExtraordinaryReserve)},
			incidence,
		}
	}

	return []Metric{
		{Label: "Reconstruction value", Value: format.Currency(res.ReconstructionValue)},
		{Label: "Annual budget", Value: format.Currency(res.TotalBudget)},
		incidence,
	}
}

func split(in budget.AssetInput, res budget.BudgetResult, v Variant) []Slice {
	cs := res.Split(in.AnnualRevenue)
	slices := []Slice{
		{Label: "Ordinary", Amount: cs.OrdinaryMaintenance},
		{Label: "Extraordinary", Amount: cs.ExtraordinaryReserve},
		{Label: "Margin", Amount: cs.ResidualMargin},
	}
	for i := range slices {
		slices[i].Value = format.Currency(slices[i].Amount)
		if v == Detailed {
			slices[i].Percent = format.Percent(mathutil.CalculatePercentage(slices[i].Amount, in.AnnualRevenue), 1)
		}
	}
	return slices
}

func justification(in budget.AssetInput, res budget.BudgetResult, v Variant) []Row {
	rows := []Row{
		{
			Parameter: "Vetusty coefficient (kv)",
			Value:     format.Coefficient(res.VetustyCoefficient),
			Basis:     fmt.Sprintf("%d years since %d", res.BuildingAge, in.ConstructionYear),
		},
		{
			Parameter: "Density coefficient (kd)",
			Value:     format.Coefficient(res.DensityCoefficient),
			Basis:     fmt.Sprintf("%d occupants", in.Capacity),
		},
		{
			Parameter: "m² per occupant",
			Value:     format.Coefficient(mathutil.Round(res.OccupancyDensity)),
		},
	}
	if v != Detailed {
		return rows
	}

	return append(rows,
		Row{
			Parameter: "Reconstruction value",
			Value:     format.Currency(res.ReconstructionValue),
			Basis:     fmt.Sprintf("%s m² at %s/m²", format.Coefficient(in.GrossArea), format.Currency(budget.UnitReconstructionValue)),
		},
		Row{
			Parameter: "Equipment Δ ordinary rate",
			Value:     format.Rate(res.DeltaOrdinaryRate),
			Basis:     in.Equipment.String(),
		},
		Row{
			Parameter: "Equipment Δ extraordinary rate",
			Value:     format.Rate(res.DeltaExtraordinaryRate),
			Basis:     in.Equipment.String(),
		},
		Row{
			Parameter: "Total budget",
			Value:     format.Currency(res.TotalBudget),
			Basis:     "ordinary + extraordinary",
		},
	)
}
