package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rshade/nutriscan/internal/logging"
	"github.com/rshade/nutriscan/internal/nutrition"
)

// Format is a document encoding.
type Format string

// Supported encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (want .json, .yaml or .yml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Household is a validated document with domain types resolved.
type Household struct {
	Version *semver.Version
	// Pets keep document order.
	Pets []nutrition.PetProfile
	// Goals is keyed by pet ID; a later goal for the same pet replaces an earlier one.
	Goals map[uuid.UUID]nutrition.WeightGoal
	Foods nutrition.FoodMap
	// FoodIDs keeps document order of Foods.
	FoodIDs  []string
	Feedings []nutrition.FeedingRecord
}

// Pet finds a pet by UUID or, failing that, by case-insensitive name.
func (h *Household) Pet(ref string) (nutrition.PetProfile, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		for _, p := range h.Pets {
			if p.ID == id {
				return p, nil
			}
		}
		return nutrition.PetProfile{}, fmt.Errorf("%w: %s", ErrPetNotFound, ref)
	}

	var found []nutrition.PetProfile
	for _, p := range h.Pets {
		if strings.EqualFold(p.Name, ref) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return nutrition.PetProfile{}, fmt.Errorf("%w: %s", ErrPetNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return nutrition.PetProfile{}, fmt.Errorf("%w: %s", ErrAmbiguousPet, ref)
	}
}

// Goal returns the weight goal for petID, or nil.
func (h *Household) Goal(petID uuid.UUID) *nutrition.WeightGoal {
	g, ok := h.Goals[petID]
	if !ok {
		return nil
	}
	return &g
}

// Food implements nutrition.FoodCatalog.
func (h *Household) Food(id string) (nutrition.FoodNutrientProfile, bool) {
	return h.Foods.Food(id)
}

// Load reads and resolves the household document at path.
func Load(ctx context.Context, path string) (*Household, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_household").
		Str("path", path).
		Msg("loading household document")

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Err(err).
			Str("path", path).
			Msg("failed to read household document")
		return nil, fmt.Errorf("reading household document: %w", err)
	}
	return Parse(ctx, data, format)
}

// Parse decodes data in the given format and resolves it.
func Parse(ctx context.Context, data []byte, format Format) (*Household, error) {
	log := logging.FromContext(ctx)

	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing household JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing household YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	h, err := Resolve(doc)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Err(err).
			Msg("household document rejected")
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("version", h.Version.String()).
		Int("pet_count", len(h.Pets)).
		Int("food_count", len(h.Foods)).
		Int("feeding_count", len(h.Feedings)).
		Msg("household document parsed")
	return h, nil
}

// Resolve validates doc and converts it to domain types. Missing pet and
// feeding IDs are generated.
func Resolve(doc Document) (*Household, error) {
	ver, err := CheckVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	h := &Household{
		Version: ver,
		Goals:   make(map[uuid.UUID]nutrition.WeightGoal),
		Foods:   make(nutrition.FoodMap, len(doc.Foods)),
	}

	for i, e := range doc.Pets {
		pet, petErr := resolvePet(fmt.Sprintf("pets[%d]", i), e)
		if petErr != nil {
			return nil, petErr
		}
		for _, existing := range h.Pets {
			if existing.ID == pet.ID {
				return nil, fmt.Errorf("%w: pets[%d]: duplicate id %s", ErrInvalidDocument, i, pet.ID)
			}
		}
		h.Pets = append(h.Pets, pet)
	}

	for i, e := range doc.Foods {
		food, foodErr := resolveFood(fmt.Sprintf("foods[%d]", i), e)
		if foodErr != nil {
			return nil, foodErr
		}
		if _, dup := h.Foods[food.ID]; dup {
			return nil, fmt.Errorf("%w: foods[%d]: duplicate id %q", ErrInvalidDocument, i, food.ID)
		}
		h.Foods[food.ID] = food
		h.FoodIDs = append(h.FoodIDs, food.ID)
	}

	for i, e := range doc.Goals {
		field := fmt.Sprintf("goals[%d]", i)
		goal, goalErr := h.resolveGoal(field, e)
		if goalErr != nil {
			return nil, goalErr
		}
		h.Goals[goal.PetID] = goal
	}

	for i, e := range doc.Feedings {
		rec, recErr := h.resolveFeeding(fmt.Sprintf("feedings[%d]", i), e)
		if recErr != nil {
			return nil, recErr
		}
		h.Feedings = append(h.Feedings, rec)
	}

	return h, nil
}

func resolvePet(field string, e PetEntry) (nutrition.PetProfile, error) {
	var pet nutrition.PetProfile

	id, err := resolveID(field, e.ID)
	if err != nil {
		return pet, err
	}
	pet.ID = id

	pet.Name = strings.TrimSpace(e.Name)
	if pet.Name == "" {
		return pet, fmt.Errorf("%w: %s.name is required", ErrInvalidDocument, field)
	}
	if pet.Species, err = nutrition.ParseSpecies(e.Species); err != nil {
		return pet, fmt.Errorf("%s.species: %w", field, err)
	}
	if e.LifeStage != "" {
		if pet.LifeStage, err = nutrition.ParseLifeStage(e.LifeStage); err != nil {
			return pet, fmt.Errorf("%s.life_stage: %w", field, err)
		}
	}
	if e.ActivityLevel != "" {
		if pet.ActivityLevel, err = nutrition.ParseActivityLevel(e.ActivityLevel); err != nil {
			return pet, fmt.Errorf("%s.activity_level: %w", field, err)
		}
	}
	if pet.WeightKg, err = weightKg(field+".weight", e.Weight, e.WeightUnit); err != nil {
		return pet, err
	}
	if e.BirthDate != "" {
		b, parseErr := time.Parse(time.DateOnly, strings.TrimSpace(e.BirthDate))
		if parseErr != nil {
			return pet, fmt.Errorf("%w: %s.birth_date: %w", ErrInvalidDocument, field, parseErr)
		}
		pet.BirthDate = &b
	}
	return pet, nil
}

func resolveFood(field string, e FoodEntry) (nutrition.FoodNutrientProfile, error) {
	food := nutrition.FoodNutrientProfile{
		ID:          strings.TrimSpace(e.ID),
		Name:        strings.TrimSpace(e.Name),
		Ingredients: e.Ingredients,
		Allergens:   e.Allergens,
	}
	if food.ID == "" {
		return food, fmt.Errorf("%w: %s.id is required", ErrInvalidDocument, field)
	}
	if food.Name == "" {
		food.Name = food.ID
	}

	kcal, err := e.CaloriesPer100g.Float(field + ".calories_per_100g")
	if err != nil {
		return food, err
	}
	if kcal < 0 {
		return food, fmt.Errorf("%w: %s.calories_per_100g is negative", ErrInvalidDocument, field)
	}
	food.CaloriesPer100g = kcal

	pcts := []struct {
		name string
		n    Number
		dst  *float64
	}{
		{"protein", e.Protein, &food.ProteinPercentage},
		{"fat", e.Fat, &food.FatPercentage},
		{"fiber", e.Fiber, &food.FiberPercentage},
		{"moisture", e.Moisture, &food.MoisturePercentage},
	}
	for _, p := range pcts {
		v, pErr := p.n.Float(field + "." + p.name)
		if pErr != nil {
			return food, pErr
		}
		if v < 0 || v > 100 {
			return food, fmt.Errorf("%w: %s.%s = %g is outside 0-100", ErrInvalidDocument, field, p.name, v)
		}
		*p.dst = v
	}
	return food, nil
}

func (h *Household) resolveGoal(field string, e GoalEntry) (nutrition.WeightGoal, error) {
	var goal nutrition.WeightGoal
	pet, err := h.Pet(e.Pet)
	if err != nil {
		return goal, fmt.Errorf("%s.pet: %w", field, err)
	}
	goal.PetID = pet.ID
	if goal.Type, err = nutrition.ParseGoalType(e.Type); err != nil {
		return goal, fmt.Errorf("%s.type: %w", field, err)
	}
	if goal.TargetWeightKg, err = weightKg(field+".target_weight", e.TargetWeight, e.WeightUnit); err != nil {
		return goal, err
	}
	return goal, nil
}

func (h *Household) resolveFeeding(field string, e FeedingEntry) (nutrition.FeedingRecord, error) {
	var rec nutrition.FeedingRecord

	id, err := resolveID(field, e.ID)
	if err != nil {
		return rec, err
	}
	rec.ID = id

	pet, err := h.Pet(e.Pet)
	if err != nil {
		return rec, fmt.Errorf("%s.pet: %w", field, err)
	}
	rec.PetID = pet.ID

	food, ok := h.Foods.Food(strings.TrimSpace(e.Food))
	if !ok {
		return rec, fmt.Errorf("%s.food: %w", field, &nutrition.FoodNotFoundError{ID: e.Food})
	}
	rec.Food = food

	if e.FedAt.IsZero() {
		return rec, fmt.Errorf("%w: %s.fed_at is required", ErrInvalidDocument, field)
	}
	rec.FedAt = e.FedAt

	amount, err := e.Amount.Float(field + ".amount")
	if err != nil {
		return rec, err
	}
	unit := e.Unit
	if strings.TrimSpace(unit) == "" {
		unit = "g"
	}
	if rec.AmountGrams, err = nutrition.NormalizeMassToGrams(amount, unit); err != nil {
		return rec, fmt.Errorf("%s.amount: %w", field, err)
	}
	return rec, nil
}

func resolveID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s.id: %w", ErrInvalidDocument, field, err)
	}
	return id, nil
}

func weightKg(field string, n Number, unit string) (float64, error) {
	if !n.IsSet() {
		return 0, nil
	}
	v, err := n.Float(field)
	if err != nil {
		return 0, err
	}
	kg, err := nutrition.NormalizeWeightToKg(v, unit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return kg, nil
}

// IsNotFound reports whether err is a missing pet or food reference.
func IsNotFound(err error) bool {
	var nf *nutrition.FoodNotFoundError
	return errors.Is(err, ErrPetNotFound) || errors.As(err, &nf)
}
