package nutrition

import (
	"math"
	"strings"
)

// Mass conversion factors to grams.
const (
	GramsPerGram     = 1.0
	GramsPerKilogram = 1000.0
	GramsPerPound    = 453.59237
	GramsPerOunce    = 28.349523125
)

// massFactor returns the grams per unit for a case-insensitive unit name.
func massFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gram", "grams":
		return GramsPerGram, true
	case "kg", "kilogram", "kilograms":
		return GramsPerKilogram, true
	case "lb", "lbs", "pound", "pounds":
		return GramsPerPound, true
	case "oz", "ounce", "ounces":
		return GramsPerOunce, true
	default:
		return 0, false
	}
}

// NormalizeMassToGrams converts value in unit (g, kg, lb, oz) to grams.
//
// Returns ErrCalculationOverflow for NaN/Inf input or results, ErrNegativeValue
// for negative input and ErrInvalidUnit for an unknown unit.
func NormalizeMassToGrams(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}
	factor, ok := massFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	g := value * factor
	if math.IsInf(g, 0) {
		return 0, ErrCalculationOverflow
	}
	return g, nil
}

// NormalizeWeightToKg converts a body weight to kilograms. An empty unit means kg.
func NormalizeWeightToKg(value float64, unit string) (float64, error) {
	if strings.TrimSpace(unit) == "" {
		unit = "kg"
	}
	g, err := NormalizeMassToGrams(value, unit)
	if err != nil {
		return 0, err
	}
	return g / GramsPerKilogram, nil
}

// IsRecognizedMassUnit reports whether unit is accepted by NormalizeMassToGrams.
func IsRecognizedMassUnit(unit string) bool {
	_, ok := massFactor(unit)
	return ok
}
