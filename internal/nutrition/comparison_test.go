package nutrition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comparisonCatalog() FoodMap {
	return FoodMap{
		"alpha": {ID: "alpha", Name: "Alpha Adult", ProteinPercentage: 20, FatPercentage: 10, FiberPercentage: 4},
		"bravo": {ID: "bravo", Name: "Bravo Prime", ProteinPercentage: 28, FatPercentage: 11, FiberPercentage: 3},
		"charlie": {
			ID: "charlie", Name: "Charlie Chow", ProteinPercentage: 24, FatPercentage: 16, FiberPercentage: 9,
			Allergens: []string{"wheat"},
		},
		"delta": {ID: "delta", Name: "Delta Diet", ProteinPercentage: 26, FatPercentage: 9, FiberPercentage: 5},
	}
}

func TestCompareFoods(t *testing.T) {
	cmp, err := CompareFoods(comparisonCatalog(), []string{"alpha", "charlie", "bravo"}, adultDogRequirements(), "")
	require.NoError(t, err)

	assert.Equal(t, MetricNutrition, cmp.Metric)
	require.Len(t, cmp.Entries, 3)
	assert.Equal(t, "bravo", cmp.Entries[0].Food.ID)
	assert.Equal(t, 100, cmp.Entries[0].Assessment.Score)
	assert.Equal(t, "alpha", cmp.Entries[1].Food.ID)
	assert.Equal(t, 75, cmp.Entries[1].Assessment.Score)
	assert.Equal(t, "charlie", cmp.Entries[2].Food.ID)
	assert.Equal(t, -20, cmp.Entries[2].Assessment.Score)
	assert.Equal(t, "bravo", cmp.BestFoodID)

	assert.Equal(t, "bravo", cmp.Leaders[MacroProtein])
	assert.Equal(t, "charlie", cmp.Leaders[MacroFat])
	assert.Equal(t, "charlie", cmp.Leaders[MacroFiber])
}

func TestCompareFoods_TiesKeepRequestOrder(t *testing.T) {
	cmp, err := CompareFoods(comparisonCatalog(), []string{"delta", "bravo"}, adultDogRequirements(), MetricNutrition)
	require.NoError(t, err)
	require.Len(t, cmp.Entries, 2)
	assert.Equal(t, cmp.Entries[0].Assessment.Score, cmp.Entries[1].Assessment.Score)
	assert.Equal(t, "delta", cmp.Entries[0].Food.ID)
	assert.Equal(t, "delta", cmp.BestFoodID)
}

func TestCompareFoods_Errors(t *testing.T) {
	catalog := comparisonCatalog()
	req := adultDogRequirements()

	tests := []struct {
		name    string
		ids     []string
		metric  ComparisonMetric
		wantErr error
	}{
		{name: "none", ids: nil, wantErr: ErrInsufficientFoods},
		{name: "one", ids: []string{"alpha"}, wantErr: ErrInsufficientFoods},
		{name: "four", ids: []string{"alpha", "bravo", "charlie", "delta"}, wantErr: ErrTooManyFoods},
		{name: "price metric", ids: []string{"alpha", "bravo"}, metric: MetricPrice, wantErr: ErrNotImplemented},
		{name: "count checked before metric", ids: []string{"alpha"}, metric: MetricPrice, wantErr: ErrInsufficientFoods},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := CompareFoods(catalog, tt.ids, req, tt.metric)
			require.Error(t, err)
			assert.Nil(t, cmp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompareFoods_FoodNotFound(t *testing.T) {
	_, err := CompareFoods(comparisonCatalog(), []string{"alpha", "zulu"}, adultDogRequirements(), MetricNutrition)
	require.Error(t, err)

	var nf *FoodNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "zulu", nf.ID)
	assert.Equal(t, "food not found: zulu", err.Error())
}

func TestCompareFoods_FoodNotFoundReportsTrimmedID(t *testing.T) {
	_, err := CompareFoods(comparisonCatalog(), []string{" alpha ", "  zulu\t"}, adultDogRequirements(), MetricNutrition)

	var nf *FoodNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "zulu", nf.ID)
	assert.Equal(t, "food not found: zulu", err.Error())
}
