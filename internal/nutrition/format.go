package nutrition

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formats numbers with English thousands separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousands separators: 1192 → "1,192".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with exactly precision decimals and thousands separators:
// FormatFloat(1234.567, 2) → "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(int64(math.Round(f)))
	}
	return printer.Sprint(number.Decimal(f,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision)))
}

// FormatCalories renders a kcal/day value rounded to the nearest integer.
func FormatCalories(kcal float64) string {
	return FormatNumber(int64(math.Round(kcal))) + " kcal"
}

// FormatGrams renders grams with one decimal.
func FormatGrams(g float64) string {
	return FormatFloat(g, 1) + " g"
}
