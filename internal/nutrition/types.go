// Package nutrition computes a pet's daily nutritional requirements and scores
// foods and feeding history against them.
//
// Everything in this package is a pure function of its arguments: daily
// caloric and macro-nutrient targets derived from veterinary RER/MER formulas,
// food compatibility scoring, and the nutritional-balance breakdown with its
// prioritized adjustment plan. Nothing here performs I/O or holds shared state,
// so every function is safe for concurrent use.
package nutrition

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Species is the animal species a profile describes.
type Species string

// Supported species.
const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// IsValid returns true if the species is recognized.
func (s Species) IsValid() bool {
	switch s {
	case SpeciesDog, SpeciesCat:
		return true
	}
	return false
}

// ParseSpecies parses a species name case-insensitively.
func ParseSpecies(s string) (Species, error) {
	sp := Species(strings.ToLower(strings.TrimSpace(s)))
	if !sp.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSpecies, s)
	}
	return sp, nil
}

// LifeStage is the maturity or physiological condition bucket driving nutrient targets.
type LifeStage string

// Supported life stages. LifeStagePuppy also covers kittens.
const (
	LifeStagePuppy     LifeStage = "puppy"
	LifeStageAdult     LifeStage = "adult"
	LifeStageSenior    LifeStage = "senior"
	LifeStagePregnant  LifeStage = "pregnant"
	LifeStageLactating LifeStage = "lactating"
)

// IsValid returns true if the life stage is recognized.
func (l LifeStage) IsValid() bool {
	switch l {
	case LifeStagePuppy, LifeStageAdult, LifeStageSenior, LifeStagePregnant, LifeStageLactating:
		return true
	}
	return false
}

// ParseLifeStage parses a life stage case-insensitively. "kitten" is accepted as
// an alias for puppy.
func ParseLifeStage(s string) (LifeStage, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "kitten" {
		return LifeStagePuppy, nil
	}
	ls := LifeStage(v)
	if !ls.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLifeStage, s)
	}
	return ls, nil
}

// ActivityLevel is the pet's typical daily activity.
type ActivityLevel string

// Supported activity levels.
const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

// IsValid returns true if the activity level is recognized.
func (a ActivityLevel) IsValid() bool {
	switch a {
	case ActivityLow, ActivityModerate, ActivityHigh:
		return true
	}
	return false
}

// ParseActivityLevel parses an activity level case-insensitively.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	a := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownActivityLevel, s)
	}
	return a, nil
}

// GoalType is the kind of weight-management goal set for a pet.
type GoalType string

// Supported goal types.
const (
	GoalWeightLoss        GoalType = "weightLoss"
	GoalWeightGain        GoalType = "weightGain"
	GoalMaintenance       GoalType = "maintenance"
	GoalHealthImprovement GoalType = "healthImprovement"
)

// IsValid returns true if the goal type is recognized.
func (g GoalType) IsValid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalMaintenance, GoalHealthImprovement:
		return true
	}
	return false
}

// ParseGoalType parses a goal type. Matching ignores case, dashes and underscores,
// so "weight_loss", "weight-loss" and "weightLoss" are equivalent.
func ParseGoalType(s string) (GoalType, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	for _, g := range []GoalType{GoalWeightLoss, GoalWeightGain, GoalMaintenance, GoalHealthImprovement} {
		if strings.ToLower(string(g)) == key {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoalType, s)
}

// PetProfile is an immutable snapshot of the biological attributes used for a
// single calculation. Zero values mean "unknown" and fall back to defaults.
type PetProfile struct {
	ID            uuid.UUID     `json:"id"                       yaml:"id"`
	Name          string        `json:"name"                     yaml:"name"`
	Species       Species       `json:"species"                  yaml:"species"`
	LifeStage     LifeStage     `json:"life_stage,omitempty"     yaml:"life_stage,omitempty"`
	ActivityLevel ActivityLevel `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`
	// WeightKg is the current body weight; 0 means unknown.
	WeightKg float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	// BirthDate is optional; age is derived from it.
	BirthDate *time.Time `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
}

// AgeYears returns the pet's age in whole years at now, and false when the
// birth date is unknown or lies in the future.
func (p PetProfile) AgeYears(now time.Time) (int, bool) {
	if p.BirthDate == nil || p.BirthDate.After(now) {
		return 0, false
	}
	b := *p.BirthDate
	age := now.Year() - b.Year()
	if now.Before(b.AddDate(age, 0, 0)) {
		age--
	}
	return age, true
}

// EffectiveLifeStage returns the explicit life stage if set, otherwise one
// derived from age, otherwise adult.
func (p PetProfile) EffectiveLifeStage(now time.Time) LifeStage {
	if p.LifeStage.IsValid() {
		return p.LifeStage
	}
	age, ok := p.AgeYears(now)
	if !ok {
		return LifeStageAdult
	}
	switch {
	case age < 1:
		return LifeStagePuppy
	case p.Species == SpeciesCat && age >= SeniorAgeCatYears:
		return LifeStageSenior
	case p.Species != SpeciesCat && age >= SeniorAgeDogYears:
		return LifeStageSenior
	default:
		return LifeStageAdult
	}
}

// EffectiveActivityLevel returns the activity level, defaulting to moderate.
func (p PetProfile) EffectiveActivityLevel() ActivityLevel {
	if p.ActivityLevel.IsValid() {
		return p.ActivityLevel
	}
	return ActivityModerate
}

// WeightGoal is an optional weight-management target for a pet.
type WeightGoal struct {
	PetID          uuid.UUID `json:"pet_id"                     yaml:"pet_id"`
	Type           GoalType  `json:"type"                       yaml:"type"`
	TargetWeightKg float64   `json:"target_weight_kg,omitempty" yaml:"target_weight_kg,omitempty"`
}

// NutritionalRequirements are the daily targets computed for a pet.
// Values are never mutated after construction.
type NutritionalRequirements struct {
	Species       Species       `json:"species"`
	LifeStage     LifeStage     `json:"life_stage"`
	ActivityLevel ActivityLevel `json:"activity_level"`

	// WeightBasisKg is the weight the energy calculation was based on.
	WeightBasisKg float64 `json:"weight_basis_kg"`
	// RestingEnergy is the RER in kcal/day, already floored.
	RestingEnergy float64 `json:"resting_energy_kcal"`
	// Multiplier is the MER factor applied to RestingEnergy.
	Multiplier float64 `json:"multiplier"`

	DailyCalories      float64 `json:"daily_calories"`
	ProteinPercentage  float64 `json:"protein_percentage"`
	FatPercentage      float64 `json:"fat_percentage"`
	FiberPercentage    float64 `json:"fiber_percentage"`
	MoisturePercentage float64 `json:"moisture_percentage"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// FoodNutrientProfile describes a food per 100 g. Percentages are 0-100.
type FoodNutrientProfile struct {
	ID                 string   `json:"id"                    yaml:"id"`
	Name               string   `json:"name"                  yaml:"name"`
	CaloriesPer100g    float64  `json:"calories_per_100g"     yaml:"calories_per_100g"`
	ProteinPercentage  float64  `json:"protein_percentage"    yaml:"protein_percentage"`
	FatPercentage      float64  `json:"fat_percentage"        yaml:"fat_percentage"`
	FiberPercentage    float64  `json:"fiber_percentage"      yaml:"fiber_percentage"`
	MoisturePercentage float64  `json:"moisture_percentage"   yaml:"moisture_percentage"`
	Ingredients        []string `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Allergens          []string `json:"allergens,omitempty"   yaml:"allergens,omitempty"`
}
