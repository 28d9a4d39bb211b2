package ration

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

func TestOptimizeAllocation_GreedyPasses(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "Maize", ProteinPercentage: 10, EnergyKcalPerKg: 3000, CostPerKg: 25},
		{Name: "Vegetable Oil", EnergyKcalPerKg: 8000, CostPerKg: 100},
		{Name: "Salt", CostPerKg: 4},
		{Name: "Soya DOC", ProteinPercentage: 40, EnergyKcalPerKg: 2000, CostPerKg: 50},
	}

	result := OptimizeAllocation(ingredients, 20, 2800)

	lines := result.Allocation.Lines
	require.Len(t, lines, 4)
	assert.Equal(t, models.MethodOptimizer, result.Allocation.Method)
	assert.Equal(t, models.UnitGram, result.Allocation.Unit)

	// protein pass, energy pass (capped at 70% of 500), energy pass, equal split
	assert.Equal(t, "Soya DOC", lines[0].Name)
	assert.InDelta(t, 500, lines[0].Quantity, 1e-9)
	assert.Equal(t, "Maize", lines[1].Name)
	assert.InDelta(t, 350, lines[1].Quantity, 1e-9)
	assert.Equal(t, "Vegetable Oil", lines[2].Name)
	assert.InDelta(t, 93.75, lines[2].Quantity, 1e-6)
	assert.Equal(t, "Salt", lines[3].Name)
	assert.InDelta(t, 56.25, lines[3].Quantity, 1e-6)

	assert.InDelta(t, 1000, result.Allocation.TotalQuantity, 1e-6)
	assert.InDelta(t, 43.35, result.TotalCost, 1e-6)
	assert.InDelta(t, 1.4, result.CostSaved, 1e-6)
	assert.InDelta(t, 8.75, lines[1].Cost, 1e-9)
}

func TestOptimizeAllocation_CapAndCutoff(t *testing.T) {
	var ingredients []models.Ingredient
	for i := 1; i <= 7; i++ {
		ingredients = append(ingredients, models.Ingredient{
			Name:              fmt.Sprintf("Meal %d", i),
			ProteinPercentage: 10,
			CostPerKg:         float64(i),
		})
	}

	result := OptimizeAllocation(ingredients, 20, 0)

	lines := result.Allocation.Lines
	require.Len(t, lines, 5)
	want := []float64{700, 210, 63, 18.9, 5.67}
	remaining := BatchSize
	for i, line := range lines {
		assert.InDelta(t, want[i], line.Quantity, 1e-6)
		assert.Greater(t, line.Quantity, 5.0)
		assert.LessOrEqual(t, line.Quantity, remaining*0.7+1e-9)
		remaining -= line.Quantity
	}
	assert.InDelta(t, 2.43, remaining, 1e-6)
}

func TestOptimizeAllocation_SmallContributionsDiscarded(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "Fish Meal", ProteinPercentage: 50, CostPerKg: 1},
		{Name: "Blood Meal", ProteinPercentage: 80, CostPerKg: 100},
	}

	// 0.2% protein needs 4 g of fish meal and then 2.5 g of blood meal.
	result := OptimizeAllocation(ingredients, 0.2, 0)

	assert.True(t, result.Allocation.Empty())
	assert.Zero(t, result.TotalCost)
	assert.InDelta(t, 50.5, result.CostSaved, 1e-9)
}

func TestOptimizeAllocation_ZeroCostSortsByProtein(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "A", ProteinPercentage: 10},
		{Name: "B", ProteinPercentage: 40},
		{Name: "C", ProteinPercentage: 20},
		{Name: "D", ProteinPercentage: 20},
	}

	result := OptimizeAllocation(ingredients, 10, 0)

	require.NotEmpty(t, result.Allocation.Lines)
	names := make([]string, 0, len(result.Allocation.Lines))
	for _, line := range result.Allocation.Lines {
		names = append(names, line.Name)
	}
	assert.Equal(t, []string{"B", "C", "D", "A"}, names)
	for _, line := range result.Allocation.Lines {
		assert.InDelta(t, 250, line.Quantity, 1e-9)
	}
	assert.Zero(t, result.TotalCost)
	assert.Zero(t, result.CostSaved)
}

func TestOptimizeAllocation_Empty(t *testing.T) {
	result := OptimizeAllocation(nil, 20, 3000)

	assert.True(t, result.Allocation.Empty())
	assert.Zero(t, result.TotalCost)
	assert.Zero(t, result.CostSaved)
}

func TestOptimizeAllocation_Deterministic(t *testing.T) {
	catalog := testCatalog().Items()

	first := OptimizeAllocation(catalog, 21, 3000)
	second := OptimizeAllocation(catalog, 21, 3000)
	assert.Equal(t, first, second)

	sel := models.Selection{BirdType: "layer", BirdCount: 321, Ingredients: []string{"Maize", "Salt", "Soya DOC"}}
	assert.Equal(t, ComputeDailyRation(sel, layerChick(), testCatalog()), ComputeDailyRation(sel, layerChick(), testCatalog()))
}

func TestEqualSplitCost(t *testing.T) {
	ingredients := []models.Ingredient{{Name: "a", CostPerKg: 10}, {Name: "b", CostPerKg: 30}}

	assert.InDelta(t, 20.0, EqualSplitCost(ingredients), 1e-9)
	assert.Zero(t, EqualSplitCost(nil))
}
