package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMassToGrams(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		unit    string
		want    float64
		wantErr error
	}{
		{name: "grams", value: 250, unit: "g", want: 250},
		{name: "kilograms mixed case", value: 1.5, unit: " KG ", want: 1500},
		{name: "pounds", value: 2, unit: "lb", want: 907.18474},
		{name: "ounces", value: 4, unit: "oz", want: 113.3980925},
		{name: "zero", value: 0, unit: "grams", want: 0},
		{name: "negative", value: -1, unit: "g", wantErr: ErrNegativeValue},
		{name: "unknown unit", value: 1, unit: "stone", wantErr: ErrInvalidUnit},
		{name: "empty unit", value: 1, unit: "", wantErr: ErrInvalidUnit},
		{name: "nan", value: math.NaN(), unit: "g", wantErr: ErrCalculationOverflow},
		{name: "inf", value: math.Inf(1), unit: "g", wantErr: ErrCalculationOverflow},
		{name: "overflow", value: math.MaxFloat64, unit: "kg", wantErr: ErrCalculationOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMassToGrams(tt.value, tt.unit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizeWeightToKg(t *testing.T) {
	kg, err := NormalizeWeightToKg(20, "")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, kg, 1e-12)

	kg, err = NormalizeWeightToKg(10, "lbs")
	require.NoError(t, err)
	assert.InDelta(t, 4.5359237, kg, 1e-12)

	_, err = NormalizeWeightToKg(10, "furlong")
	require.ErrorIs(t, err, ErrInvalidUnit)
}

func TestIsRecognizedMassUnit(t *testing.T) {
	for _, u := range []string{"g", "gram", "kg", "Kilograms", "lb", "pounds", "oz", "ounce"} {
		assert.True(t, IsRecognizedMassUnit(u), u)
	}
	for _, u := range []string{"", "mg", "ton", "cups"} {
		assert.False(t, IsRecognizedMassUnit(u), u)
	}
}
