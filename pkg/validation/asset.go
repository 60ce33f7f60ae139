package validation

import (
	"fmt"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
)

// AssetWarnings returns non-fatal observations about an asset that will still
// evaluate but probably holds a typo. Inputs that Evaluate would reject are
// not reported here.
func AssetWarnings(in budget.AssetInput) []string {
	var warnings []string

	if age := budget.ReferenceYear - in.ConstructionYear; age > constants.MaxReasonableAgeYears {
		warnings = append(warnings, fmt.Sprintf("construction year %d makes the asset %d years old",
			in.ConstructionYear, age))
	}

	if in.Capacity > 0 && in.GrossArea > 0 && in.GrossArea/float64(in.Capacity) < 1 {
		warnings = append(warnings, fmt.Sprintf("less than 1 m2 per occupant (%.0f m2 for %d occupants)",
			in.GrossArea, in.Capacity))
	}

	if in.AnnualRevenue > 0 && in.GrossArea > 0 && in.AnnualRevenue < in.GrossArea {
		warnings = append(warnings, fmt.Sprintf("annual revenue %.2f is below one currency unit per m2",
			in.AnnualRevenue))
	}

	return warnings
}
