package nutrition

import (
	"fmt"
	"sort"
	"strings"
)

// Comparison limits.
const (
	MinComparisonFoods = 2
	MaxComparisonFoods = 3
)

// ComparisonMetric selects how foods are compared.
type ComparisonMetric string

// Comparison metrics. Only MetricNutrition is implemented; foods carry no price data.
const (
	MetricNutrition ComparisonMetric = "nutrition"
	MetricPrice     ComparisonMetric = "price"
)

// FoodCatalog looks foods up by ID.
type FoodCatalog interface {
	Food(id string) (FoodNutrientProfile, bool)
}

// FoodMap is a FoodCatalog backed by a map.
type FoodMap map[string]FoodNutrientProfile

// Food implements FoodCatalog.
func (m FoodMap) Food(id string) (FoodNutrientProfile, bool) {
	f, ok := m[id]
	return f, ok
}

// ComparedFood is one food's line in a comparison.
type ComparedFood struct {
	Food       FoodNutrientProfile     `json:"food"`
	Assessment CompatibilityAssessment `json:"assessment"`
}

// FoodComparison ranks 2-3 foods for the same requirements.
type FoodComparison struct {
	Metric ComparisonMetric `json:"metric"`
	// Entries are ordered by score descending; ties keep request order.
	Entries    []ComparedFood `json:"entries"`
	BestFoodID string         `json:"best_food_id"`
	// Leaders maps each macro to the food with the highest percentage of it.
	Leaders map[Macro]string `json:"leaders"`
}

// CompareFoods assesses the requested foods and ranks them.
//
// Errors: ErrInsufficientFoods for fewer than two IDs, ErrTooManyFoods for more
// than three, *FoodNotFoundError for an unknown ID and ErrNotImplemented for any
// metric other than MetricNutrition. An empty metric means MetricNutrition.
func CompareFoods(
	catalog FoodCatalog,
	ids []string,
	req NutritionalRequirements,
	metric ComparisonMetric,
) (*FoodComparison, error) {
	if len(ids) < MinComparisonFoods {
		return nil, ErrInsufficientFoods
	}
	if len(ids) > MaxComparisonFoods {
		return nil, ErrTooManyFoods
	}
	if metric == "" {
		metric = MetricNutrition
	}
	if metric != MetricNutrition {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, metric)
	}

	cmp := &FoodComparison{
		Metric:  metric,
		Entries: make([]ComparedFood, 0, len(ids)),
		Leaders: make(map[Macro]string, len(Macros)),
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		food, ok := catalog.Food(id)
		if !ok {
			return nil, &FoodNotFoundError{ID: id}
		}
		cmp.Entries = append(cmp.Entries, ComparedFood{Food: food, Assessment: Assess(food, req)})
	}

	for _, m := range Macros {
		best := -1.0
		for _, e := range cmp.Entries {
			if v := foodPercentage(e.Food, m); v > best {
				best = v
				cmp.Leaders[m] = e.Food.ID
			}
		}
	}

	sort.SliceStable(cmp.Entries, func(i, j int) bool {
		return cmp.Entries[i].Assessment.Score > cmp.Entries[j].Assessment.Score
	})
	cmp.BestFoodID = cmp.Entries[0].Food.ID
	return cmp, nil
}

func foodPercentage(f FoodNutrientProfile, m Macro) float64 {
	switch m {
	case MacroProtein:
		return f.ProteinPercentage
	case MacroFat:
		return f.FatPercentage
	case MacroFiber:
		return f.FiberPercentage
	default:
		return 0
	}
}
