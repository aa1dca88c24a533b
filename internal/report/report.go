// Package report assembles per-pet veterinary report data: requirements,
// balance breakdown and compatibility of every food fed in the window.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rshade/nutriscan/internal/batch"
	"github.com/rshade/nutriscan/internal/ingest"
	"github.com/rshade/nutriscan/internal/logging"
	"github.com/rshade/nutriscan/internal/nutrition"
)

// DefaultConcurrency bounds parallel report batches.
const DefaultConcurrency = 4

// ErrNoPets is returned when the household has no pets to report on.
var ErrNoPets = errors.New("no pets to report on")

// FoodAssessment is the compatibility of one fed food.
type FoodAssessment struct {
	FoodID     string                            `json:"food_id"`
	FoodName   string                            `json:"food_name"`
	Assessment nutrition.CompatibilityAssessment `json:"assessment"`
}

// PetReport is the report data for one pet.
type PetReport struct {
	Pet          nutrition.PetProfile              `json:"pet"`
	Goal         *nutrition.WeightGoal             `json:"goal,omitempty"`
	Requirements nutrition.NutritionalRequirements `json:"requirements"`
	Intake       nutrition.FeedingAggregate        `json:"intake"`
	Breakdown    nutrition.NutritionalBreakdown    `json:"breakdown"`
	Foods        []FoodAssessment                  `json:"foods"`
	GeneratedAt  time.Time                         `json:"generated_at"`
}

// Builder computes PetReports. The zero value is not usable; use NewBuilder.
type Builder struct {
	calculator  nutrition.Calculator
	engine      nutrition.BalanceEngine
	windowDays  int
	concurrency int
	now         func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock for requirements and the feeding window.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithWindowDays sets the trailing feeding window.
func WithWindowDays(days int) Option {
	return func(b *Builder) {
		if days > 0 {
			b.windowDays = days
		}
	}
}

// WithEnergyDensity sets the kcal/g used to turn targets into grams.
func WithEnergyDensity(kcalPerGram float64) Option {
	return func(b *Builder) {
		if kcalPerGram > 0 {
			b.engine.EnergyDensity = kcalPerGram
		}
	}
}

// WithConcurrency bounds parallel work.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBuilder returns a Builder with defaults overridden by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		windowDays:  nutrition.DefaultWindowDays,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.calculator = nutrition.NewCalculator(nutrition.WithClock(b.now))
	return b
}

// Build reports on the pets named by petRefs (IDs or names), or on every pet
// when petRefs is empty. Reports are returned in request order.
func (b *Builder) Build(ctx context.Context, h *ingest.Household, petRefs []string) ([]PetReport, error) {
	log := logging.FromContext(ctx)

	pets, err := SelectPets(h, petRefs)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "report").
		Str("operation", "build").
		Int("pet_count", len(pets)).
		Int("window_days", b.windowDays).
		Msg("building pet reports")

	proc := batch.NewProcessorFor[nutrition.PetProfile](len(pets), b.concurrency).
		WithProgressCallback(func(s batch.ProgressSnapshot) {
			log.Debug().
				Ctx(ctx).
				Str("component", "report").
				Int("processed", s.ProcessedItems).
				Int("total", s.TotalItems).
				Float64("percent", s.PercentComplete()).
				Msg("report progress")
		})

	now := b.now()
	reports, err := batch.Map(ctx, proc, pets, b.concurrency,
		func(_ context.Context, pet nutrition.PetProfile) (PetReport, error) {
			return b.Pet(h, pet, now), nil
		})
	if err != nil {
		return nil, fmt.Errorf("building reports: %w", err)
	}
	return reports, nil
}

// Pet builds the report for a single pet at now.
func (b *Builder) Pet(h *ingest.Household, pet nutrition.PetProfile, now time.Time) PetReport {
	goal := h.Goal(pet.ID)
	req := b.calculator.Calculate(pet, goal)
	intake := nutrition.AggregateFeedings(h.Feedings, pet.ID, now, b.windowDays)

	r := PetReport{
		Pet:          pet,
		Goal:         goal,
		Requirements: req,
		Intake:       intake,
		Breakdown:    b.engine.ComputeBreakdown(intake, req),
		Foods:        make([]FoodAssessment, 0, len(intake.FoodIDs)),
		GeneratedAt:  now,
	}
	for _, id := range intake.FoodIDs {
		food, ok := h.Food(id)
		if !ok {
			continue
		}
		r.Foods = append(r.Foods, FoodAssessment{
			FoodID:     food.ID,
			FoodName:   food.Name,
			Assessment: nutrition.Assess(food, req),
		})
	}
	return r
}

// SelectPets resolves refs against h, or returns every pet when refs is empty.
func SelectPets(h *ingest.Household, refs []string) ([]nutrition.PetProfile, error) {
	if len(refs) == 0 {
		if len(h.Pets) == 0 {
			return nil, ErrNoPets
		}
		return h.Pets, nil
	}
	pets := make([]nutrition.PetProfile, 0, len(refs))
	for _, ref := range refs {
		pet, err := h.Pet(ref)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, nil
}
