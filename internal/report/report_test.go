package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/nutriscan/internal/ingest"
	"github.com/rshade/nutriscan/internal/nutrition"
)

var reportNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

const householdYAML = `version: "1.0.0"
pets:
  - name: Rex
    species: dog
    life_stage: adult
    weight: 20
  - name: Miso
    species: cat
    weight: 4.5
goals:
  - pet: Miso
    type: weightLoss
    target_weight: 4
foods:
  - id: kibble
    name: Trail Kibble
    calories_per_100g: 350
    protein: 25
    fat: 10
    fiber: 4
    allergens: [chicken]
  - id: salmon
    calories_per_100g: 110
    protein: 11
    fat: 6
    fiber: 1
feedings:
  - {pet: Rex, food: kibble, fed_at: 2026-03-13T08:00:00Z, amount: 100}
  - {pet: Rex, food: kibble, fed_at: 2026-03-14T08:00:00Z, amount: 100}
  - {pet: Rex, food: kibble, fed_at: 2026-03-15T08:00:00Z, amount: 100}
  - {pet: Rex, food: kibble, fed_at: 2026-01-01T08:00:00Z, amount: 900}
  - {pet: Miso, food: salmon, fed_at: 2026-03-15T07:00:00Z, amount: 60}
`

func household(t *testing.T) *ingest.Household {
	t.Helper()
	h, err := ingest.Parse(context.Background(), []byte(householdYAML), ingest.FormatYAML)
	require.NoError(t, err)
	return h
}

func newTestBuilder(opts ...Option) *Builder {
	opts = append([]Option{WithClock(func() time.Time { return reportNow })}, opts...)
	return NewBuilder(opts...)
}

func TestBuild_AllPets(t *testing.T) {
	h := household(t)
	reports, err := newTestBuilder().Build(context.Background(), h, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	rex := reports[0]
	assert.Equal(t, "Rex", rex.Pet.Name)
	assert.Nil(t, rex.Goal)
	assert.InDelta(t, 1191.6, rex.Requirements.DailyCalories, 0.1)
	assert.Equal(t, 3, rex.Intake.RecordCount)
	assert.Equal(t, 3, rex.Intake.DaysWithRecords)
	assert.InDelta(t, 25.0, rex.Intake.AvgDailyProteinGrams, 1e-9)
	assert.False(t, rex.Breakdown.HasInsufficientData)
	require.NotNil(t, rex.Breakdown.Summary)
	assert.Equal(t, nutrition.BalanceCritical, rex.Breakdown.Summary.Status)
	require.Len(t, rex.Foods, 1)
	assert.Equal(t, "kibble", rex.Foods[0].FoodID)
	assert.Equal(t, "Trail Kibble", rex.Foods[0].FoodName)
	assert.Equal(t, 55, rex.Foods[0].Assessment.Score)
	assert.Equal(t, nutrition.LevelFair, rex.Foods[0].Assessment.Level)
	assert.Equal(t, reportNow, rex.GeneratedAt)

	miso := reports[1]
	require.NotNil(t, miso.Goal)
	assert.Equal(t, nutrition.GoalWeightLoss, miso.Goal.Type)
	assert.InDelta(t, 4.0, miso.Requirements.WeightBasisKg, 1e-12)
	assert.True(t, miso.Breakdown.HasInsufficientData)
	assert.Nil(t, miso.Breakdown.Summary)
	require.Len(t, miso.Foods, 1)
	assert.Equal(t, "salmon", miso.Foods[0].FoodID)
}

func TestBuild_SelectedPetsKeepRequestOrder(t *testing.T) {
	h := household(t)
	reports, err := newTestBuilder(WithConcurrency(2)).Build(context.Background(), h, []string{"miso", "REX"})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "Miso", reports[0].Pet.Name)
	assert.Equal(t, "Rex", reports[1].Pet.Name)
}

func TestBuild_UnknownPet(t *testing.T) {
	_, err := newTestBuilder().Build(context.Background(), household(t), []string{"Ghost"})
	require.ErrorIs(t, err, ingest.ErrPetNotFound)
}

func TestBuild_NoPets(t *testing.T) {
	_, err := newTestBuilder().Build(context.Background(), &ingest.Household{}, nil)
	require.ErrorIs(t, err, ErrNoPets)
}

func TestBuild_WindowAndDensity(t *testing.T) {
	h := household(t)

	// A 90-day window picks up the large January meal.
	reports, err := newTestBuilder(WithWindowDays(90)).Build(context.Background(), h, []string{"Rex"})
	require.NoError(t, err)
	assert.Equal(t, 4, reports[0].Intake.RecordCount)
	assert.Equal(t, 90, reports[0].Intake.WindowDays)

	dense, err := newTestBuilder(WithEnergyDensity(10)).Build(context.Background(), h, []string{"Rex"})
	require.NoError(t, err)
	protein, ok := dense[0].Breakdown.Status(nutrition.MacroProtein)
	require.True(t, ok)
	// 1191.6 kcal at 10 kcal/g is ~119 g of food, 25 % protein is ~29.8 g.
	assert.InDelta(t, 29.79, protein.Recommended, 0.01)
}

func TestBuild_ManyPets(t *testing.T) {
	doc := ingest.Document{}
	for i := range 25 {
		doc.Pets = append(doc.Pets, ingest.PetEntry{
			Name:    fmt.Sprintf("pet-%02d", i),
			Species: "dog",
			Weight:  ingest.Num(float64(5 + i)),
		})
	}
	h, err := ingest.Resolve(doc)
	require.NoError(t, err)

	reports, err := newTestBuilder(WithConcurrency(3)).Build(context.Background(), h, nil)
	require.NoError(t, err)
	require.Len(t, reports, 25)
	for i, r := range reports {
		assert.Equal(t, fmt.Sprintf("pet-%02d", i), r.Pet.Name)
		assert.InDelta(t, float64(5+i), r.Requirements.WeightBasisKg, 1e-12)
	}
}

func TestBuild_ConcurrencySplitsBatches(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		wantBatches int
	}{
		{name: "serial", concurrency: 1, wantBatches: 1},
		{name: "one pet per worker", concurrency: 2, wantBatches: 2},
		{name: "more workers than pets", concurrency: 8, wantBatches: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

			reports, err := newTestBuilder(WithConcurrency(tt.concurrency)).Build(ctx, household(t), nil)
			require.NoError(t, err)
			require.Len(t, reports, 2)
			assert.Equal(t, tt.wantBatches, strings.Count(buf.String(), "report progress"))
		})
	}
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestBuilder().Build(ctx, household(t), nil)
	require.ErrorIs(t, err, context.Canceled)
}
