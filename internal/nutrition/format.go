package nutrition

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gertd/go-pluralize"
)

var plural = pluralize.NewClient()

// FormatNumber renders v with at most one decimal and no trailing zeros.
func FormatNumber(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatAmount renders an absolute amount in base units, e.g. "150 g".
func FormatAmount(amount float64, unit BaseUnit) string {
	return fmt.Sprintf("%s %s", FormatNumber(amount), unit.Symbol())
}

// FormatServing renders a logged serving for display.
//
// label is the serving name ("slice"), quantity the serving multiplier and
// amount the absolute consumed amount in unit. When label is empty or only
// names a base unit the result is just the amount ("150 g"); otherwise it
// reads "2 slices (60 g)", pluralizing the label when quantity exceeds 1.
func FormatServing(label string, quantity, amount float64, unit BaseUnit) string {
	if isUnitLabel(label) {
		return FormatAmount(amount, unit)
	}
	name := strings.TrimSpace(label)
	if quantity > 1 {
		name = plural.Plural(name)
	}
	return fmt.Sprintf("%s %s (%s)", FormatNumber(quantity), name, FormatAmount(amount, unit))
}

// FormatNutrient renders a display-unit value with its unit, e.g. "12.5 mg".
func FormatNutrient(n Nutrient, display float64) string {
	info, ok := Lookup(n)
	if !ok {
		return FormatNumber(display)
	}
	return fmt.Sprintf("%s %s", FormatNumber(display), info.Unit)
}
