package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// FeedingRecord is one logged meal.
type FeedingRecord struct {
	ID          uuid.UUID           `json:"id"`
	PetID       uuid.UUID           `json:"pet_id"`
	FedAt       time.Time           `json:"fed_at"`
	AmountGrams float64             `json:"amount_grams"`
	Food        FoodNutrientProfile `json:"food"`
}

// MacroGrams returns the grams of m contained in the meal.
func (r FeedingRecord) MacroGrams(m Macro) float64 {
	var pct float64
	switch m {
	case MacroProtein:
		pct = r.Food.ProteinPercentage
	case MacroFat:
		pct = r.Food.FatPercentage
	case MacroFiber:
		pct = r.Food.FiberPercentage
	}
	return r.AmountGrams * pct / percentMultiplier
}

// Calories returns the kcal contained in the meal.
func (r FeedingRecord) Calories() float64 {
	return r.AmountGrams * r.Food.CaloriesPer100g / percentMultiplier
}

// FeedingAggregate is average daily intake over a trailing window.
type FeedingAggregate struct {
	PetID       uuid.UUID `json:"pet_id"`
	WindowDays  int       `json:"window_days"`
	RecordCount int       `json:"record_count"`
	// DaysWithRecords is the number of distinct UTC days that had at least one meal.
	DaysWithRecords int `json:"days_with_records"`

	AvgDailyCalories     float64 `json:"avg_daily_calories"`
	AvgDailyProteinGrams float64 `json:"avg_daily_protein_grams"`
	AvgDailyFatGrams     float64 `json:"avg_daily_fat_grams"`
	AvgDailyFiberGrams   float64 `json:"avg_daily_fiber_grams"`

	// FoodIDs lists the distinct foods fed in the window, first-fed order.
	FoodIDs []string `json:"food_ids,omitempty"`
}

// Grams returns the average daily grams of m.
func (a FeedingAggregate) Grams(m Macro) float64 {
	switch m {
	case MacroProtein:
		return a.AvgDailyProteinGrams
	case MacroFat:
		return a.AvgDailyFatGrams
	case MacroFiber:
		return a.AvgDailyFiberGrams
	default:
		return 0
	}
}

// AggregateFeedings averages petID's meals over the window (now − windowDays, now].
// Totals are divided by the number of distinct days that have records, so days
// without any logged meal do not dilute the average. windowDays <= 0 uses
// DefaultWindowDays.
func AggregateFeedings(records []FeedingRecord, petID uuid.UUID, now time.Time, windowDays int) FeedingAggregate {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	from := now.AddDate(0, 0, -windowDays)

	agg := FeedingAggregate{PetID: petID, WindowDays: windowDays}
	days := make(map[string]struct{})
	seenFood := make(map[string]struct{})
	var kcal, protein, fat, fiber float64

	for _, r := range records {
		if r.PetID != petID || !r.FedAt.After(from) || r.FedAt.After(now) {
			continue
		}
		agg.RecordCount++
		days[r.FedAt.UTC().Format(time.DateOnly)] = struct{}{}
		kcal += r.Calories()
		protein += r.MacroGrams(MacroProtein)
		fat += r.MacroGrams(MacroFat)
		fiber += r.MacroGrams(MacroFiber)
		if r.Food.ID != "" {
			if _, ok := seenFood[r.Food.ID]; !ok {
				seenFood[r.Food.ID] = struct{}{}
				agg.FoodIDs = append(agg.FoodIDs, r.Food.ID)
			}
		}
	}

	agg.DaysWithRecords = len(days)
	if agg.DaysWithRecords == 0 {
		return agg
	}
	n := float64(agg.DaysWithRecords)
	agg.AvgDailyCalories = kcal / n
	agg.AvgDailyProteinGrams = protein / n
	agg.AvgDailyFatGrams = fat / n
	agg.AvgDailyFiberGrams = fiber / n
	return agg
}
