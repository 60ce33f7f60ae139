// Package format turns computed amounts into display strings. Values are
// rounded here and nowhere else.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a whole-unit amount with symbol and thousands separators (e.g., "€ 630,000").
func Currency(amount float64) string {
	return withSymbol(amount, printer().Sprintf("%.0f", math.Abs(amount)))
}

// CurrencyCents is like Currency but keeps two decimals (e.g., "-€ 1,234.56").
func CurrencyCents(amount float64) string {
	return withSymbol(amount, printer().Sprintf("%.2f", math.Abs(amount)))
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer().Sprintf("%.2f", amount)
}

// Percent formats a value that is already a percentage (e.g., 5.488 -> "5.49%").
func Percent(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

// Rate formats a fractional rate as a percentage (e.g., 0.006 -> "0.600%").
func Rate(rate float64) string {
	return Percent(rate*constants.PercentageMultiplier, 3)
}

// Coefficient formats a multiplier with the fewest digits that represent it (e.g., 1.25, 1.4).
func Coefficient(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Area formats square meters with two decimals and a unit.
func Area(value float64) string {
	return printer().Sprintf("%.2f m²", value)
}

func withSymbol(amount float64, digits string) string {
	if amount < 0 && digits != "0" && digits != "0.00" {
		return "-" + constants.CurrencySymbol + " " + digits
	}
	return constants.CurrencySymbol + " " + digits
}
