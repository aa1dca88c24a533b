package nutrition

import (
	"fmt"
	"strings"
)

// CompatibilityLevel is the qualitative reading of a compatibility score.
type CompatibilityLevel string

// Compatibility levels, best first.
const (
	LevelExcellent CompatibilityLevel = "excellent"
	LevelGood      CompatibilityLevel = "good"
	LevelFair      CompatibilityLevel = "fair"
	LevelPoor      CompatibilityLevel = "poor"
)

// CompatibilityAssessment is the result of scoring a food against requirements.
type CompatibilityAssessment struct {
	// Score is the raw additive total. It is not clamped and ranges from
	// -AllergenPenalty to 4×CriterionPoints.
	Score           int                `json:"score"`
	Level           CompatibilityLevel `json:"level"`
	Issues          []string           `json:"issues"`
	Recommendations []string           `json:"recommendations"`
}

// LevelForScore maps a score to its level.
func LevelForScore(score int) CompatibilityLevel {
	switch {
	case score >= ExcellentThreshold:
		return LevelExcellent
	case score >= GoodThreshold:
		return LevelGood
	case score >= FairThreshold:
		return LevelFair
	default:
		return LevelPoor
	}
}

// Assess scores food against req.
//
// Each satisfied criterion (protein at or above target, fat within 80-120 % of
// target, fiber within 50-200 % of target, no listed allergens) adds
// CriterionPoints. Listed allergens subtract AllergenPenalty instead. Failed
// criteria append one issue and one recommendation. Missing nutrient values
// score as deficient.
func Assess(food FoodNutrientProfile, req NutritionalRequirements) CompatibilityAssessment {
	a := CompatibilityAssessment{
		Issues:          []string{},
		Recommendations: []string{},
	}

	if food.ProteinPercentage >= req.ProteinPercentage {
		a.Score += CriterionPoints
	} else {
		a.add(
			fmt.Sprintf("Protein content (%.1f%%) is below recommended (%.1f%%)",
				food.ProteinPercentage, req.ProteinPercentage),
			"Consider adding protein-rich supplements or switching to higher protein food",
		)
	}

	fatMin := req.FatPercentage * fatBandLow
	fatMax := req.FatPercentage * fatBandHigh
	switch {
	case food.FatPercentage < fatMin:
		a.add(
			fmt.Sprintf("Fat content (%.1f%%) is too low (recommended: %.1f%%)",
				food.FatPercentage, req.FatPercentage),
			"Consider adding healthy fats such as fish oil to the diet",
		)
	case food.FatPercentage > fatMax:
		a.add(
			fmt.Sprintf("Fat content (%.1f%%) may be too high (recommended: %.1f%%)",
				food.FatPercentage, req.FatPercentage),
			"Consider reducing portion sizes to limit fat intake",
		)
	default:
		a.Score += CriterionPoints
	}

	fiberMin := req.FiberPercentage * fiberBandLow
	fiberMax := req.FiberPercentage * fiberBandHigh
	if food.FiberPercentage >= fiberMin && food.FiberPercentage <= fiberMax {
		a.Score += CriterionPoints
	} else {
		a.add(
			fmt.Sprintf("Fiber content (%.1f%%) is outside optimal range (%.1f%%-%.1f%%)",
				food.FiberPercentage, fiberMin, fiberMax),
			"Monitor digestive health and adjust fiber intake as needed",
		)
	}

	if len(food.Allergens) > 0 {
		a.Score -= AllergenPenalty
		a.add(
			"Contains potential allergens: "+strings.Join(food.Allergens, ", "),
			"Monitor your pet for allergic reactions such as itching, vomiting or diarrhea",
		)
	} else {
		a.Score += CriterionPoints
	}

	a.Level = LevelForScore(a.Score)
	return a
}

func (a *CompatibilityAssessment) add(issue, recommendation string) {
	a.Issues = append(a.Issues, issue)
	a.Recommendations = append(a.Recommendations, recommendation)
}
