package ingest

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// DefaultDocumentVersion is assumed when a document has no version.
const DefaultDocumentVersion = "1.0.0"

// SupportedVersions is the semver constraint a document version must satisfy.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Document is the on-disk household document, JSON or YAML.
type Document struct {
	Version  string         `json:"version"            yaml:"version"`
	Pets     []PetEntry     `json:"pets"               yaml:"pets"`
	Goals    []GoalEntry    `json:"goals,omitempty"    yaml:"goals,omitempty"`
	Foods    []FoodEntry    `json:"foods"              yaml:"foods"`
	Feedings []FeedingEntry `json:"feedings,omitempty" yaml:"feedings,omitempty"`
}

// PetEntry is a pet as written in a document.
type PetEntry struct {
	ID            string `json:"id,omitempty"             yaml:"id,omitempty"`
	Name          string `json:"name"                     yaml:"name"`
	Species       string `json:"species"                  yaml:"species"`
	LifeStage     string `json:"life_stage,omitempty"     yaml:"life_stage,omitempty"`
	ActivityLevel string `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`
	Weight        Number `json:"weight"                   yaml:"weight"`
	// WeightUnit defaults to kg.
	WeightUnit string `json:"weight_unit,omitempty" yaml:"weight_unit,omitempty"`
	// BirthDate is YYYY-MM-DD.
	BirthDate string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
}

// GoalEntry is a weight goal. Pet is a pet ID or name.
type GoalEntry struct {
	Pet          string `json:"pet"                   yaml:"pet"`
	Type         string `json:"type"                  yaml:"type"`
	TargetWeight Number `json:"target_weight"         yaml:"target_weight"`
	WeightUnit   string `json:"weight_unit,omitempty" yaml:"weight_unit,omitempty"`
}

// FoodEntry is a food nutrient profile. Percentages are 0-100.
type FoodEntry struct {
	ID              string   `json:"id"                    yaml:"id"`
	Name            string   `json:"name"                  yaml:"name"`
	CaloriesPer100g Number   `json:"calories_per_100g"     yaml:"calories_per_100g"`
	Protein         Number   `json:"protein"               yaml:"protein"`
	Fat             Number   `json:"fat"                   yaml:"fat"`
	Fiber           Number   `json:"fiber"                 yaml:"fiber"`
	Moisture        Number   `json:"moisture"              yaml:"moisture"`
	Ingredients     []string `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Allergens       []string `json:"allergens,omitempty"   yaml:"allergens,omitempty"`
}

// FeedingEntry is one logged meal. Pet is a pet ID or name; Food a food ID.
type FeedingEntry struct {
	ID     string    `json:"id,omitempty"   yaml:"id,omitempty"`
	Pet    string    `json:"pet"            yaml:"pet"`
	Food   string    `json:"food"           yaml:"food"`
	FedAt  time.Time `json:"fed_at"         yaml:"fed_at"`
	Amount Number    `json:"amount"         yaml:"amount"`
	// Unit defaults to g.
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// CheckVersion parses v and verifies it satisfies SupportedVersions.
// An empty v means DefaultDocumentVersion.
func CheckVersion(v string) (*semver.Version, error) {
	if v == "" {
		v = DefaultDocumentVersion
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, err
	}
	if !constraint.Check(ver) {
		return nil, fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, ver, SupportedVersions)
	}
	return ver, nil
}
