// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/maintenance-budget/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateVariant checks if the report variant is supported.
func ValidateVariant(variant string) error {
	if variant != constants.VariantCompact && variant != constants.VariantDetailed {
		return fmt.Errorf("expected report variant of %s or %s, got %s",
			constants.VariantCompact, constants.VariantDetailed, variant)
	}
	return nil
}
