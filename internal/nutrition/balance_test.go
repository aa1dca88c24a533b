package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gramsRequirements yields targets of 25 g protein, 10 g fat and 4 g fiber at
// the default energy density (350 kcal / 3.5 = 100 g of food).
func gramsRequirements() NutritionalRequirements {
	return NutritionalRequirements{
		DailyCalories:     350,
		ProteinPercentage: 25,
		FatPercentage:     10,
		FiberPercentage:   4,
	}
}

func intake(records int, protein, fat, fiber float64) FeedingAggregate {
	return FeedingAggregate{
		RecordCount:          records,
		AvgDailyProteinGrams: protein,
		AvgDailyFatGrams:     fat,
		AvgDailyFiberGrams:   fiber,
	}
}

func TestClassifyPercentage(t *testing.T) {
	tests := []struct {
		pct  float64
		want MacroStatus
	}{
		{0, StatusTooLow},
		{79.999, StatusTooLow},
		{80.0, StatusSlightlyLow},
		{89.999, StatusSlightlyLow},
		{90.0, StatusOptimal},
		{100.0, StatusOptimal},
		{110.0, StatusOptimal},
		{110.001, StatusSlightlyHigh},
		{120.0, StatusSlightlyHigh},
		{120.001, StatusTooHigh},
		{300, StatusTooHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPercentage(tt.pct), "%.3f%%", tt.pct)
	}
}

func TestBalanceStatusForTargetsMet(t *testing.T) {
	assert.Equal(t, BalanceOptimal, BalanceStatusForTargetsMet(3))
	assert.Equal(t, BalanceGood, BalanceStatusForTargetsMet(2))
	assert.Equal(t, BalanceNeedsAttention, BalanceStatusForTargetsMet(1))
	assert.Equal(t, BalanceCritical, BalanceStatusForTargetsMet(0))
}

func TestComputeBreakdown_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		got := ComputeBreakdown(intake(n, 25, 10, 4), gramsRequirements())
		assert.True(t, got.HasInsufficientData)
		assert.Nil(t, got.Summary)
		assert.Nil(t, got.Plan)
		assert.Empty(t, got.Macros)
		assert.Equal(t, n, got.RecordCount)
	}
}

func TestComputeBreakdown_AllOptimal(t *testing.T) {
	got := ComputeBreakdown(intake(3, 25, 10, 4.2), gramsRequirements())

	require.False(t, got.HasInsufficientData)
	require.NotNil(t, got.Summary)
	assert.Nil(t, got.Plan)
	assert.Equal(t, 3, got.Summary.TargetsMet)
	assert.Equal(t, 3, got.Summary.TotalTargets)
	assert.Equal(t, BalanceOptimal, got.Summary.Status)
	assert.Equal(t, MacroFiber, got.Summary.PrimaryDriver)
	assert.Contains(t, got.Summary.Explanation, "within the optimal range")

	require.Len(t, got.Macros, 3)
	assert.Equal(t, MacroProtein, got.Macros[0].Macro)
	assert.Equal(t, MacroFat, got.Macros[1].Macro)
	assert.Equal(t, MacroFiber, got.Macros[2].Macro)
	for _, m := range got.Macros {
		assert.Equal(t, StatusOptimal, m.Status)
	}
}

func TestNewMacroNutrientStatus_BandEdges(t *testing.T) {
	tests := []struct {
		name        string
		actual      float64
		recommended float64
		wantPct     float64
		want        MacroStatus
	}{
		{name: "11 of 10", actual: 11, recommended: 10, wantPct: 110, want: StatusOptimal},
		{name: "8.8 of 8", actual: 8.8, recommended: 8, wantPct: 110, want: StatusOptimal},
		{name: "4.4 of 4", actual: 4.4, recommended: 4, wantPct: 110, want: StatusOptimal},
		{name: "27 of 30", actual: 27, recommended: 30, wantPct: 90, want: StatusOptimal},
		{name: "just over upper edge", actual: 11.0001, recommended: 10, wantPct: 110.001, want: StatusSlightlyHigh},
		{name: "just under lower edge", actual: 8.9999, recommended: 10, wantPct: 89.999, want: StatusSlightlyLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMacroNutrientStatus(MacroProtein, tt.actual, tt.recommended)
			assert.InDelta(t, tt.wantPct, got.Percentage, 1e-9)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestComputeBreakdown_BandEdgesAreOptimal(t *testing.T) {
	req := NutritionalRequirements{
		DailyCalories:     350,
		ProteinPercentage: 30,
		FatPercentage:     10,
		FiberPercentage:   4,
	}
	target := func(m Macro, factor float64) float64 {
		return factor * req.TargetGrams(m, DefaultEnergyDensityKcalPerGram)
	}

	tests := []struct {
		name   string
		factor float64
	}{
		{name: "90 percent", factor: 0.9},
		{name: "110 percent", factor: 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBreakdown(intake(3,
				target(MacroProtein, tt.factor),
				target(MacroFat, tt.factor),
				target(MacroFiber, tt.factor)), req)

			require.NotNil(t, got.Summary)
			for _, m := range got.Macros {
				assert.Equal(t, StatusOptimal, m.Status, "%s at %.15f%%", m.Macro, m.Percentage)
				assert.Zero(t, m.DistanceFromOptimal())
			}
			assert.Equal(t, 3, got.Summary.TargetsMet)
			assert.Equal(t, BalanceOptimal, got.Summary.Status)
			assert.Nil(t, got.Plan)
		})
	}

	t.Run("exact grams at 110 percent", func(t *testing.T) {
		got := ComputeBreakdown(intake(3, 33, 11, 4.4), req)
		require.NotNil(t, got.Summary)
		assert.Equal(t, 3, got.Summary.TargetsMet)
		assert.Nil(t, got.Plan)
	})
}

func TestComputeBreakdown_NeedsAttention(t *testing.T) {
	got := ComputeBreakdown(intake(12, 18, 10, 4.6), gramsRequirements())

	require.NotNil(t, got.Summary)
	protein, ok := got.Status(MacroProtein)
	require.True(t, ok)
	assert.InDelta(t, 25.0, protein.Recommended, 1e-9)
	assert.InDelta(t, 72.0, protein.Percentage, 1e-9)
	assert.Equal(t, StatusTooLow, protein.Status)

	fiber, ok := got.Status(MacroFiber)
	require.True(t, ok)
	assert.Equal(t, StatusSlightlyHigh, fiber.Status)

	assert.Equal(t, 1, got.Summary.TargetsMet)
	assert.Equal(t, BalanceNeedsAttention, got.Summary.Status)
	assert.Equal(t, MacroProtein, got.Summary.PrimaryDriver)
	assert.InDelta(t, 72.0, got.Summary.PrimaryDriverPercentage, 1e-9)
	assert.Equal(t, "Protein is the primary driver at 72% of recommended (Too Low).", got.Summary.Explanation)

	require.NotNil(t, got.Plan)
	require.Len(t, got.Plan.Actions, 2)

	first := got.Plan.Actions[0]
	assert.Equal(t, 1, first.Priority)
	assert.Equal(t, MacroProtein, first.Macro)
	assert.Equal(t, DirectionIncrease, first.Direction)
	assert.InDelta(t, 22.5, first.TargetGrams, 1e-9)
	assert.InDelta(t, 18.0, first.CurrentGrams, 1e-9)
	assert.InDelta(t, 4.5, first.AmountGrams, 1e-9)

	second := got.Plan.Actions[1]
	assert.Equal(t, 2, second.Priority)
	assert.Equal(t, MacroFiber, second.Macro)
	assert.Equal(t, DirectionReduce, second.Direction)
	assert.InDelta(t, 4.4, second.TargetGrams, 1e-9)
	assert.InDelta(t, 0.2, second.AmountGrams, 1e-9)
}

func TestComputeBreakdown_Critical(t *testing.T) {
	got := ComputeBreakdown(intake(30, 50, 2, 0), gramsRequirements())

	require.NotNil(t, got.Summary)
	assert.Equal(t, 0, got.Summary.TargetsMet)
	assert.Equal(t, BalanceCritical, got.Summary.Status)
	// protein 200 %, fat 20 %, fiber 0 %: protein and fiber tie, protein wins.
	assert.Equal(t, MacroProtein, got.Summary.PrimaryDriver)

	require.NotNil(t, got.Plan)
	require.Len(t, got.Plan.Actions, 3)
	assert.Equal(t, MacroProtein, got.Plan.Actions[0].Macro)
	assert.Equal(t, DirectionReduce, got.Plan.Actions[0].Direction)
	assert.InDelta(t, 27.5, got.Plan.Actions[0].TargetGrams, 1e-9)
	assert.InDelta(t, 22.5, got.Plan.Actions[0].AmountGrams, 1e-9)
	assert.Equal(t, MacroFiber, got.Plan.Actions[1].Macro)
	assert.Equal(t, MacroFat, got.Plan.Actions[2].Macro)
	for i, a := range got.Plan.Actions {
		assert.Equal(t, i+1, a.Priority)
	}
}

func TestComputeBreakdown_TargetsMetMatchesStatuses(t *testing.T) {
	req := gramsRequirements()
	cases := [][3]float64{
		{25, 10, 4}, {18, 10, 4}, {18, 15, 4}, {18, 15, 1}, {24, 9.5, 3.8}, {40, 4, 12},
	}
	for _, c := range cases {
		got := ComputeBreakdown(intake(5, c[0], c[1], c[2]), req)
		require.NotNil(t, got.Summary)
		optimal := 0
		for _, m := range got.Macros {
			if m.Status == StatusOptimal {
				optimal++
			}
		}
		assert.Equal(t, optimal, got.Summary.TargetsMet)
		assert.Equal(t, BalanceStatusForTargetsMet(optimal), got.Summary.Status)
		if optimal == 3 {
			assert.Nil(t, got.Plan)
		} else {
			require.NotNil(t, got.Plan)
			assert.Len(t, got.Plan.Actions, 3-optimal)
		}
	}
}

func TestPrimaryDriverTieBreak(t *testing.T) {
	status := func(m Macro, pct float64) MacroNutrientStatus {
		return MacroNutrientStatus{Macro: m, Actual: pct, Recommended: 100, Percentage: pct, Status: ClassifyPercentage(pct)}
	}

	t.Run("protein beats fat", func(t *testing.T) {
		s := summarize([]MacroNutrientStatus{status(MacroProtein, 80), status(MacroFat, 120), status(MacroFiber, 100)})
		assert.Equal(t, MacroProtein, s.PrimaryDriver)

		plan := buildPlan([]MacroNutrientStatus{status(MacroProtein, 80), status(MacroFat, 120), status(MacroFiber, 100)})
		require.NotNil(t, plan)
		require.Len(t, plan.Actions, 2)
		assert.Equal(t, MacroProtein, plan.Actions[0].Macro)
		assert.Equal(t, MacroFat, plan.Actions[1].Macro)
	})

	t.Run("fat beats fiber regardless of input order", func(t *testing.T) {
		s := summarize([]MacroNutrientStatus{status(MacroFiber, 130), status(MacroFat, 70), status(MacroProtein, 100)})
		assert.Equal(t, MacroFat, s.PrimaryDriver)
	})

	t.Run("protein beats fiber", func(t *testing.T) {
		s := summarize([]MacroNutrientStatus{status(MacroProtein, 95), status(MacroFat, 100), status(MacroFiber, 105)})
		assert.Equal(t, MacroProtein, s.PrimaryDriver)
	})
}

func TestBalanceEngine_EnergyDensity(t *testing.T) {
	// 350 kcal at 1.75 kcal/g is 200 g of food: 50 g protein, 20 g fat, 8 g fiber.
	got := BalanceEngine{EnergyDensity: 1.75}.ComputeBreakdown(intake(4, 50, 20, 8), gramsRequirements())
	require.NotNil(t, got.Summary)
	assert.Equal(t, BalanceOptimal, got.Summary.Status)
}

func TestAdjustmentAction_Description(t *testing.T) {
	a := AdjustmentAction{Priority: 1, Macro: MacroFat, Direction: DirectionReduce, AmountGrams: 2.25, CurrentGrams: 13.25, TargetGrams: 11}
	assert.Equal(t, "Reduce fat by 2.2 g/day (13.2 → 11.0 g/day)", a.Description())
}
