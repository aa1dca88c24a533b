package nutrition

import (
	"math"
	"time"
)

// Calculator derives NutritionalRequirements from a pet profile.
// The zero value is not usable; construct with NewCalculator.
type Calculator struct {
	now func() time.Time
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithClock sets the clock used for CalculatedAt and age-based life stages.
func WithClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCalculator returns a Calculator using the wall clock unless overridden.
func NewCalculator(opts ...CalculatorOption) Calculator {
	c := Calculator{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// CalculateRequirements is shorthand for NewCalculator().Calculate(pet, goal).
func CalculateRequirements(pet PetProfile, goal *WeightGoal) NutritionalRequirements {
	return NewCalculator().Calculate(pet, goal)
}

// Calculate computes daily calorie and macro-nutrient targets for pet.
//
// Weight basis: a positive goal target, else a positive current weight, else
// the species default. With a goal the goal-type multiplier replaces the
// life-stage/activity table. The result never has fewer than
// MinDailyCalories. Calculate never fails; missing inputs use defaults.
func (c Calculator) Calculate(pet PetProfile, goal *WeightGoal) NutritionalRequirements {
	now := c.now()
	stage := pet.EffectiveLifeStage(now)
	activity := pet.EffectiveActivityLevel()

	weight := calculationWeight(pet, goal)
	rer := RestingEnergyRequirement(weight)

	var multiplier float64
	if goal != nil {
		multiplier = GoalMultiplier(pet.Species, goal.Type)
	} else {
		multiplier = MaintenanceMultiplier(pet.Species, stage, activity)
	}

	idx := speciesIndex(pet.Species)
	return NutritionalRequirements{
		Species:            pet.Species,
		LifeStage:          stage,
		ActivityLevel:      activity,
		WeightBasisKg:      weight,
		RestingEnergy:      rer,
		Multiplier:         multiplier,
		DailyCalories:      math.Max(rer*multiplier, MinDailyCalories),
		ProteinPercentage:  proteinTargets[stage][idx],
		FatPercentage:      fatTargets[stage][idx],
		FiberPercentage:    fiberTargets[stage],
		MoisturePercentage: MoistureTargetPercentage,
		CalculatedAt:       now,
	}
}

// calculationWeight selects goal target > current weight > species default.
func calculationWeight(pet PetProfile, goal *WeightGoal) float64 {
	if goal != nil && goal.TargetWeightKg > 0 {
		return goal.TargetWeightKg
	}
	if pet.WeightKg > 0 {
		return pet.WeightKg
	}
	return DefaultWeightKg(pet.Species)
}

// DefaultWeightKg returns the fallback body weight for a species.
func DefaultWeightKg(s Species) float64 {
	if s == SpeciesCat {
		return DefaultCatWeightKg
	}
	return DefaultDogWeightKg
}

// RestingEnergyRequirement returns max(70 × w^0.75, 100) kcal/day.
// Non-positive or non-finite weights yield the floor.
func RestingEnergyRequirement(weightKg float64) float64 {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return MinRestingEnergy
	}
	return math.Max(RERCoefficient*math.Pow(weightKg, RERExponent), MinRestingEnergy)
}

// MaintenanceMultiplier returns the MER multiplier for a pet without a weight goal.
// Activity only matters for adults.
func MaintenanceMultiplier(s Species, stage LifeStage, activity ActivityLevel) float64 {
	idx := speciesIndex(s)
	if stage == LifeStageAdult || !stage.IsValid() {
		m, ok := adultActivityMultipliers[activity]
		if !ok {
			m = adultActivityMultipliers[ActivityModerate]
		}
		return m[idx]
	}
	return lifeStageMultipliers[stage][idx]
}

// GoalMultiplier returns the MER multiplier used while a weight goal is active.
// Unknown goal types are treated as maintenance.
func GoalMultiplier(s Species, g GoalType) float64 {
	m, ok := goalMultipliers[g]
	if !ok {
		m = goalMultipliers[GoalMaintenance]
	}
	return m[speciesIndex(s)]
}

// ExpectedDailyFoodGrams converts the calorie target into grams of food per day
// at the given energy density. Non-positive densities use the default.
func (r NutritionalRequirements) ExpectedDailyFoodGrams(kcalPerGram float64) float64 {
	if kcalPerGram <= 0 {
		kcalPerGram = DefaultEnergyDensityKcalPerGram
	}
	return r.DailyCalories / kcalPerGram
}

// TargetGrams returns the daily grams of macro implied by the percentage target.
func (r NutritionalRequirements) TargetGrams(m Macro, kcalPerGram float64) float64 {
	return r.ExpectedDailyFoodGrams(kcalPerGram) * r.Percentage(m) / percentMultiplier
}

// Percentage returns the percentage target for a macro.
func (r NutritionalRequirements) Percentage(m Macro) float64 {
	switch m {
	case MacroProtein:
		return r.ProteinPercentage
	case MacroFat:
		return r.FatPercentage
	case MacroFiber:
		return r.FiberPercentage
	default:
		return 0
	}
}
