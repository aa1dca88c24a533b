package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adultDogRequirements() NutritionalRequirements {
	return NutritionalRequirements{
		Species:            SpeciesDog,
		LifeStage:          LifeStageAdult,
		ActivityLevel:      ActivityModerate,
		DailyCalories:      1191.6,
		ProteinPercentage:  25,
		FatPercentage:      10,
		FiberPercentage:    4,
		MoisturePercentage: 10,
	}
}

func TestAssess_Example(t *testing.T) {
	food := FoodNutrientProfile{
		ID:                "kibble",
		ProteinPercentage: 20,
		FatPercentage:     10,
		FiberPercentage:   4,
	}

	got := Assess(food, adultDogRequirements())

	assert.Equal(t, 75, got.Score)
	assert.Equal(t, LevelGood, got.Level)
	assert.Equal(t, []string{"Protein content (20.0%) is below recommended (25.0%)"}, got.Issues)
	assert.Equal(t,
		[]string{"Consider adding protein-rich supplements or switching to higher protein food"},
		got.Recommendations)
}

func TestAssess_Scoring(t *testing.T) {
	req := adultDogRequirements()

	tests := []struct {
		name          string
		food          FoodNutrientProfile
		wantScore     int
		wantLevel     CompatibilityLevel
		wantIssues    int
		issueContains string
	}{
		{
			name:      "perfect food",
			food:      FoodNutrientProfile{ProteinPercentage: 26, FatPercentage: 10, FiberPercentage: 4},
			wantScore: 100,
			wantLevel: LevelExcellent,
		},
		{
			name:      "protein exactly at target passes",
			food:      FoodNutrientProfile{ProteinPercentage: 25, FatPercentage: 8, FiberPercentage: 8},
			wantScore: 100,
			wantLevel: LevelExcellent,
		},
		{
			name:          "fat below band",
			food:          FoodNutrientProfile{ProteinPercentage: 30, FatPercentage: 7.9, FiberPercentage: 4},
			wantScore:     75,
			wantLevel:     LevelGood,
			wantIssues:    1,
			issueContains: "too low",
		},
		{
			name:          "fat above band",
			food:          FoodNutrientProfile{ProteinPercentage: 30, FatPercentage: 12.1, FiberPercentage: 4},
			wantScore:     75,
			wantLevel:     LevelGood,
			wantIssues:    1,
			issueContains: "may be too high",
		},
		{
			name:          "fiber below band",
			food:          FoodNutrientProfile{ProteinPercentage: 30, FatPercentage: 10, FiberPercentage: 1.9},
			wantScore:     75,
			wantLevel:     LevelGood,
			wantIssues:    1,
			issueContains: "outside optimal range",
		},
		{
			name:          "fiber above band",
			food:          FoodNutrientProfile{ProteinPercentage: 30, FatPercentage: 10, FiberPercentage: 8.1},
			wantScore:     75,
			wantLevel:     LevelGood,
			wantIssues:    1,
			issueContains: "outside optimal range",
		},
		{
			name:       "empty profile scores as deficient",
			food:       FoodNutrientProfile{},
			wantScore:  25,
			wantLevel:  LevelPoor,
			wantIssues: 3,
		},
		{
			name: "everything wrong with allergens reaches minimum",
			food: FoodNutrientProfile{
				ProteinPercentage: 5, FatPercentage: 30, FiberPercentage: 20,
				Allergens: []string{"chicken"},
			},
			wantScore:     -20,
			wantLevel:     LevelPoor,
			wantIssues:    4,
			issueContains: "chicken",
		},
		{
			name:       "two criteria met with allergen is poor",
			food:       FoodNutrientProfile{ProteinPercentage: 30, FatPercentage: 20, FiberPercentage: 4, Allergens: []string{"soy"}},
			wantScore:  30,
			wantLevel:  LevelPoor,
			wantIssues: 2,
		},
		{
			name:       "three criteria met with allergen",
			food:       FoodNutrientProfile{ProteinPercentage: 30, FatPercentage: 10, FiberPercentage: 4, Allergens: []string{"wheat"}},
			wantScore:  55,
			wantLevel:  LevelFair,
			wantIssues: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.food, req)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Len(t, got.Issues, tt.wantIssues)
			assert.Len(t, got.Recommendations, tt.wantIssues)
			if tt.issueContains != "" {
				require.NotEmpty(t, got.Issues)
				assert.Contains(t, got.Issues[len(got.Issues)-1], tt.issueContains)
			}
		})
	}
}

func TestAssess_AllergenPenalty(t *testing.T) {
	req := adultDogRequirements()
	foods := []FoodNutrientProfile{
		{ProteinPercentage: 26, FatPercentage: 10, FiberPercentage: 4},
		{ProteinPercentage: 10, FatPercentage: 10, FiberPercentage: 4},
		{ProteinPercentage: 10, FatPercentage: 2, FiberPercentage: 0},
	}

	for _, clean := range foods {
		withAllergens := clean
		withAllergens.Allergens = []string{"beef", "dairy"}

		a := Assess(clean, req)
		b := Assess(withAllergens, req)

		// The allergen-free bonus is replaced by the penalty; the nutrient
		// subtotal is unchanged.
		nutrientSubtotal := a.Score - CriterionPoints
		assert.Equal(t, nutrientSubtotal-AllergenPenalty, b.Score)
		assert.Len(t, b.Issues, len(a.Issues)+1)
		require.NotEmpty(t, b.Issues)
		assert.Contains(t, b.Issues[len(b.Issues)-1], "beef, dairy")
	}
}

func TestAssess_Deterministic(t *testing.T) {
	food := FoodNutrientProfile{ProteinPercentage: 22, FatPercentage: 13, FiberPercentage: 1, Allergens: []string{"fish"}}
	req := adultDogRequirements()
	assert.Equal(t, Assess(food, req), Assess(food, req))
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  CompatibilityLevel
	}{
		{100, LevelExcellent},
		{90, LevelExcellent},
		{89, LevelGood},
		{70, LevelGood},
		{69, LevelFair},
		{50, LevelFair},
		{49, LevelPoor},
		{0, LevelPoor},
		{-20, LevelPoor},
		{125, LevelExcellent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}
