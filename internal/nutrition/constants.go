package nutrition

// Energy formula constants.
//
//	RER = RERCoefficient × weight_kg ^ RERExponent
//	MER = RER × multiplier
const (
	// RERCoefficient is the kcal coefficient of the resting energy formula.
	RERCoefficient = 70.0

	// RERExponent is the metabolic body-weight exponent.
	RERExponent = 0.75

	// MinRestingEnergy floors RER in kcal/day.
	MinRestingEnergy = 100.0

	// MinDailyCalories floors the final daily calorie target in kcal/day,
	// regardless of what the formula produces.
	MinDailyCalories = 200.0

	// MoistureTargetPercentage is the moisture target for every pet.
	MoistureTargetPercentage = 10.0
)

// Default body weights used when neither a goal target nor a current weight is known.
const (
	DefaultDogWeightKg = 20.0
	DefaultCatWeightKg = 4.0
)

// Age thresholds for deriving a life stage when none is recorded.
const (
	SeniorAgeDogYears = 7
	SeniorAgeCatYears = 10
)

// DefaultEnergyDensityKcalPerGram is the reference energy density used to turn a
// daily calorie target into an expected daily food mass, and from there the
// macro percentage targets into grams per day.
const DefaultEnergyDensityKcalPerGram = 3.5

// Compatibility scoring.
const (
	// CriterionPoints is awarded for each criterion a food satisfies.
	CriterionPoints = 25
	// AllergenPenalty is subtracted when a food lists any allergen.
	AllergenPenalty = 20

	fatBandLow    = 0.8
	fatBandHigh   = 1.2
	fiberBandLow  = 0.5
	fiberBandHigh = 2.0

	ExcellentThreshold = 90
	GoodThreshold      = 70
	FairThreshold      = 50
)

// Macro status bands, in percent of the recommended amount.
const (
	OptimalLowPercent   = 90.0
	OptimalHighPercent  = 110.0
	SlightlyLowPercent  = 80.0
	SlightlyHighPercent = 120.0
	percentMultiplier   = 100.0
)

// MinFeedingRecords is the number of feeding records needed in the window
// before a balance breakdown is considered meaningful.
const MinFeedingRecords = 3

// DefaultWindowDays is the trailing feeding-history window.
const DefaultWindowDays = 30

// goalMultipliers maps goal type to the (dog, cat) MER multiplier.
//
//nolint:gochecknoglobals // Constant lookup table
var goalMultipliers = map[GoalType][2]float64{
	GoalWeightLoss:        {1.0, 0.8},
	GoalWeightGain:        {1.8, 1.8},
	GoalMaintenance:       {1.6, 1.2},
	GoalHealthImprovement: {1.6, 1.2},
}

// lifeStageMultipliers maps non-adult life stages to the (dog, cat) maintenance multiplier.
// Adults are looked up by activity level in adultActivityMultipliers.
//
//nolint:gochecknoglobals // Constant lookup table
var lifeStageMultipliers = map[LifeStage][2]float64{
	LifeStagePuppy:     {2.5, 2.25},
	LifeStageSenior:    {1.4, 1.1},
	LifeStagePregnant:  {1.7, 1.6},
	LifeStageLactating: {3.0, 2.0},
}

//nolint:gochecknoglobals // Constant lookup table
var adultActivityMultipliers = map[ActivityLevel][2]float64{
	ActivityLow:      {1.6, 1.0},
	ActivityModerate: {1.8, 1.2},
	ActivityHigh:     {2.0, 1.4},
}

// proteinTargets maps life stage to the (dog, cat) protein percentage.
//
//nolint:gochecknoglobals // Constant lookup table
var proteinTargets = map[LifeStage][2]float64{
	LifeStagePuppy:     {28, 35},
	LifeStageAdult:     {25, 30},
	LifeStageSenior:    {23, 32},
	LifeStagePregnant:  {29, 38},
	LifeStageLactating: {30, 40},
}

// fatTargets maps life stage to the (dog, cat) fat percentage.
//
//nolint:gochecknoglobals // Constant lookup table
var fatTargets = map[LifeStage][2]float64{
	LifeStagePuppy:     {12, 15},
	LifeStageAdult:     {10, 12},
	LifeStageSenior:    {8, 10},
	LifeStagePregnant:  {12, 15},
	LifeStageLactating: {15, 18},
}

// fiberTargets is species independent.
//
//nolint:gochecknoglobals // Constant lookup table
var fiberTargets = map[LifeStage]float64{
	LifeStagePuppy:     3.0,
	LifeStageAdult:     4.0,
	LifeStageSenior:    5.0,
	LifeStagePregnant:  3.5,
	LifeStageLactating: 3.0,
}

// speciesIndex selects the column of a (dog, cat) table. Unknown species use the dog column.
func speciesIndex(s Species) int {
	if s == SpeciesCat {
		return 1
	}
	return 0
}
