package nutrition

import (
	"fmt"
	"math"
	"sort"
)

// Macro identifies a macronutrient tracked by the balance breakdown.
type Macro string

// Tracked macros.
const (
	MacroProtein Macro = "protein"
	MacroFat     Macro = "fat"
	MacroFiber   Macro = "fiber"
)

// Macros lists the tracked macros in tie-break priority order: when two macros
// deviate equally, the earlier one wins.
//
//nolint:gochecknoglobals // Fixed ordering table
var Macros = []Macro{MacroProtein, MacroFat, MacroFiber}

// Label returns the capitalized macro name.
func (m Macro) Label() string {
	switch m {
	case MacroProtein:
		return "Protein"
	case MacroFat:
		return "Fat"
	case MacroFiber:
		return "Fiber"
	default:
		return string(m)
	}
}

func (m Macro) rank() int {
	for i, x := range Macros {
		if x == m {
			return i
		}
	}
	return len(Macros)
}

// MacroStatus classifies intake as a percentage of the recommended amount.
type MacroStatus string

// Macro statuses.
const (
	StatusOptimal      MacroStatus = "optimal"
	StatusSlightlyLow  MacroStatus = "slightlyLow"
	StatusSlightlyHigh MacroStatus = "slightlyHigh"
	StatusTooLow       MacroStatus = "tooLow"
	StatusTooHigh      MacroStatus = "tooHigh"
)

// Label returns a human-readable status.
func (s MacroStatus) Label() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusSlightlyLow:
		return "Slightly Low"
	case StatusSlightlyHigh:
		return "Slightly High"
	case StatusTooLow:
		return "Too Low"
	case StatusTooHigh:
		return "Too High"
	default:
		return string(s)
	}
}

// ClassifyPercentage maps a percentage-of-recommended to a status.
//
// Bands:
//   - tooLow: below 80
//   - slightlyLow: 80 up to but excluding 90
//   - optimal: 90 through 110 inclusive
//   - slightlyHigh: above 110 through 120
//   - tooHigh: above 120
func ClassifyPercentage(p float64) MacroStatus {
	p = roundPercent(p)
	switch {
	case p < SlightlyLowPercent:
		return StatusTooLow
	case p < OptimalLowPercent:
		return StatusSlightlyLow
	case p <= OptimalHighPercent:
		return StatusOptimal
	case p <= SlightlyHighPercent:
		return StatusSlightlyHigh
	default:
		return StatusTooHigh
	}
}

// percentPrecision is the scale percentages are rounded to before banding, so
// float error cannot push an exact 90 % or 110 % intake across a band edge.
const percentPrecision = 1e9

func roundPercent(p float64) float64 {
	return math.Round(p*percentPrecision) / percentPrecision
}

// BalanceStatus is the overall reading of a breakdown.
type BalanceStatus string

// Balance statuses keyed by the number of optimal macros (3, 2, 1, 0).
const (
	BalanceOptimal        BalanceStatus = "optimal"
	BalanceGood           BalanceStatus = "good"
	BalanceNeedsAttention BalanceStatus = "needsAttention"
	BalanceCritical       BalanceStatus = "critical"
)

// BalanceStatusForTargetsMet maps the count of optimal macros to a status.
func BalanceStatusForTargetsMet(n int) BalanceStatus {
	switch {
	case n >= len(Macros):
		return BalanceOptimal
	case n == 2:
		return BalanceGood
	case n == 1:
		return BalanceNeedsAttention
	default:
		return BalanceCritical
	}
}

// Direction is the way an adjustment moves intake.
type Direction string

// Adjustment directions.
const (
	DirectionIncrease Direction = "Increase"
	DirectionReduce   Direction = "Reduce"
)

// MacroNutrientStatus compares actual daily intake of one macro with its target.
type MacroNutrientStatus struct {
	Macro Macro `json:"macro"`
	// Actual is the average grams per day eaten.
	Actual float64 `json:"actual_grams"`
	// Recommended is the target grams per day.
	Recommended float64     `json:"recommended_grams"`
	Percentage  float64     `json:"percentage"`
	Status      MacroStatus `json:"status"`
}

// Deviation is |percentage − 100|.
func (s MacroNutrientStatus) Deviation() float64 {
	return math.Abs(s.Percentage - percentMultiplier)
}

// DistanceFromOptimal is how many percentage points the macro lies outside the
// optimal band; 0 when inside.
func (s MacroNutrientStatus) DistanceFromOptimal() float64 {
	return math.Max(0, math.Max(OptimalLowPercent-s.Percentage, s.Percentage-OptimalHighPercent))
}

// NewMacroNutrientStatus builds the status for one macro. A non-positive
// recommendation yields a 0 % reading.
func NewMacroNutrientStatus(m Macro, actual, recommended float64) MacroNutrientStatus {
	pct := 0.0
	if recommended > 0 {
		pct = roundPercent(actual / recommended * percentMultiplier)
	}
	return MacroNutrientStatus{
		Macro:       m,
		Actual:      actual,
		Recommended: recommended,
		Percentage:  pct,
		Status:      ClassifyPercentage(pct),
	}
}

// BalanceSummary aggregates the three macro statuses.
type BalanceSummary struct {
	TargetsMet    int           `json:"targets_met"`
	TotalTargets  int           `json:"total_targets"`
	Status        BalanceStatus `json:"status"`
	PrimaryDriver Macro         `json:"primary_driver"`
	// PrimaryDriverPercentage is the driver's percentage of recommended.
	PrimaryDriverPercentage float64 `json:"primary_driver_percentage"`
	Explanation             string  `json:"explanation"`
}

// AdjustmentAction is one step of an adjustment plan.
type AdjustmentAction struct {
	Priority     int       `json:"priority"`
	Macro        Macro     `json:"macro"`
	Direction    Direction `json:"direction"`
	AmountGrams  float64   `json:"amount_grams"`
	CurrentGrams float64   `json:"current_grams"`
	TargetGrams  float64   `json:"target_grams"`
}

// Description renders the action as a sentence.
func (a AdjustmentAction) Description() string {
	return fmt.Sprintf("%s %s by %.1f g/day (%.1f → %.1f g/day)",
		a.Direction, a.Macro, a.AmountGrams, a.CurrentGrams, a.TargetGrams)
}

// AdjustmentPlan lists corrective actions, most urgent first.
type AdjustmentPlan struct {
	Actions []AdjustmentAction `json:"actions"`
}

// NutritionalBreakdown is the balance view over recent feeding history.
type NutritionalBreakdown struct {
	RecordCount         int                   `json:"record_count"`
	HasInsufficientData bool                  `json:"has_insufficient_data"`
	Macros              []MacroNutrientStatus `json:"macros,omitempty"`
	Summary             *BalanceSummary       `json:"summary,omitempty"`
	Plan                *AdjustmentPlan       `json:"plan,omitempty"`
}

// Status returns the status entry for m.
func (b NutritionalBreakdown) Status(m Macro) (MacroNutrientStatus, bool) {
	for _, s := range b.Macros {
		if s.Macro == m {
			return s, true
		}
	}
	return MacroNutrientStatus{}, false
}

// BalanceEngine computes balance breakdowns. EnergyDensity is the kcal/g used
// to turn percentage targets into grams; zero means DefaultEnergyDensityKcalPerGram.
type BalanceEngine struct {
	EnergyDensity float64
}

// ComputeBreakdown runs the default BalanceEngine.
func ComputeBreakdown(intake FeedingAggregate, req NutritionalRequirements) NutritionalBreakdown {
	return BalanceEngine{}.ComputeBreakdown(intake, req)
}

// ComputeBreakdown classifies each macro, summarizes the balance and, when any
// macro is outside the optimal band, builds an adjustment plan. With fewer
// than MinFeedingRecords records only RecordCount and HasInsufficientData are set.
func (e BalanceEngine) ComputeBreakdown(intake FeedingAggregate, req NutritionalRequirements) NutritionalBreakdown {
	b := NutritionalBreakdown{RecordCount: intake.RecordCount}
	if intake.RecordCount < MinFeedingRecords {
		b.HasInsufficientData = true
		return b
	}

	b.Macros = make([]MacroNutrientStatus, 0, len(Macros))
	for _, m := range Macros {
		b.Macros = append(b.Macros,
			NewMacroNutrientStatus(m, intake.Grams(m), req.TargetGrams(m, e.EnergyDensity)))
	}

	summary := summarize(b.Macros)
	b.Summary = &summary
	b.Plan = buildPlan(b.Macros)
	return b
}

func summarize(statuses []MacroNutrientStatus) BalanceSummary {
	s := BalanceSummary{TotalTargets: len(statuses)}
	var driver *MacroNutrientStatus
	for i := range statuses {
		st := &statuses[i]
		if st.Status == StatusOptimal {
			s.TargetsMet++
		}
		if driver == nil || moreUrgent(st.Deviation(), st.Macro, driver.Deviation(), driver.Macro) {
			driver = st
		}
	}
	s.Status = BalanceStatusForTargetsMet(s.TargetsMet)
	if driver == nil {
		return s
	}

	s.PrimaryDriver = driver.Macro
	s.PrimaryDriverPercentage = driver.Percentage
	if s.TargetsMet == s.TotalTargets {
		s.Explanation = fmt.Sprintf("All %d macronutrients are within the optimal range; %s is closest to its limit at %.0f%% of recommended.",
			s.TotalTargets, driver.Macro, driver.Percentage)
	} else {
		s.Explanation = fmt.Sprintf("%s is the primary driver at %.0f%% of recommended (%s).",
			driver.Macro.Label(), driver.Percentage, driver.Status.Label())
	}
	return s
}

// moreUrgent reports whether deviation a of macro am outranks deviation b of bm.
// Equal deviations fall back to macro priority order.
func moreUrgent(a float64, am Macro, b float64, bm Macro) bool {
	if a != b {
		return a > b
	}
	return am.rank() < bm.rank()
}

// buildPlan returns nil when every macro is optimal.
func buildPlan(statuses []MacroNutrientStatus) *AdjustmentPlan {
	var off []MacroNutrientStatus
	for _, s := range statuses {
		if s.Status != StatusOptimal {
			off = append(off, s)
		}
	}
	if len(off) == 0 {
		return nil
	}

	sort.SliceStable(off, func(i, j int) bool {
		return moreUrgent(off[i].DistanceFromOptimal(), off[i].Macro, off[j].DistanceFromOptimal(), off[j].Macro)
	})

	plan := &AdjustmentPlan{Actions: make([]AdjustmentAction, 0, len(off))}
	for i, s := range off {
		target := s.Recommended * OptimalHighPercent / percentMultiplier
		if s.Percentage < OptimalLowPercent {
			target = s.Recommended * OptimalLowPercent / percentMultiplier
		}
		dir := DirectionReduce
		if s.Actual < target {
			dir = DirectionIncrease
		}
		plan.Actions = append(plan.Actions, AdjustmentAction{
			Priority:     i + 1,
			Macro:        s.Macro,
			Direction:    dir,
			AmountGrams:  math.Abs(s.Actual - target),
			CurrentGrams: s.Actual,
			TargetGrams:  target,
		})
	}
	return plan
}
