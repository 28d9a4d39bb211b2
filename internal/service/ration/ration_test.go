package ration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

func testCatalog() models.Catalog {
	return models.NewCatalog([]models.Ingredient{
		{Name: "Maize", ProteinPercentage: 8.5, EnergyKcalPerKg: 3350, FatPercentage: 3.8, FiberPercentage: 2.2, MoisturePercentage: 14, AshPercentage: 1.3, CostPerKg: 24.5},
		{Name: "Soya DOC", ProteinPercentage: 44, EnergyKcalPerKg: 2230, FatPercentage: 0.8, FiberPercentage: 7, MoisturePercentage: 12, AshPercentage: 6.5, CostPerKg: 52},
		{Name: "Vegetable Oil", EnergyKcalPerKg: 8800, FatPercentage: 99, MoisturePercentage: 0.2, CostPerKg: 120},
		{Name: "Salt", MoisturePercentage: 2, AshPercentage: 98, CostPerKg: 8},
		{Name: "Maize", ProteinPercentage: 99},
	})
}

func broilerStarter() models.Phase {
	return models.Phase{
		ID:      "starter",
		Protein: "20–22%",
		Energy:  "3000–3100 kcal/kg",
		Formula: models.Formula{
			{Ingredient: "Maize", Parts: 550},
			{Ingredient: "Soya DOC", Parts: 350},
			{Ingredient: "Rice Bran", Parts: 25},
			{Ingredient: "Vegetable Oil", Parts: 40},
			{Ingredient: "DCP", Parts: 18},
			{Ingredient: "Limestone Powder", Parts: 8},
			{Ingredient: "Salt", Parts: 3},
			{Ingredient: "Broiler Premix", Parts: 2.5},
			{Ingredient: "Toxin Binder", Parts: 1},
			{Ingredient: "Coccidiostat", Parts: 0.5},
		},
	}
}

func layerChick() models.Phase {
	return models.Phase{ID: "chick", Protein: "20–21%", Energy: "2800 kcal/kg"}
}

func TestDailyFeedKg(t *testing.T) {
	assert.InDelta(t, 120.0, DailyFeedKg("broiler", 1000), 1e-9)
	assert.InDelta(t, 130.0, DailyFeedKg("layer", 1000), 1e-9)
	assert.Zero(t, DailyFeedKg("broiler", 0))
	assert.Zero(t, DailyFeedKg("broiler", -5))
}

func TestComputeDailyRation_FormulaScenario(t *testing.T) {
	sel := models.Selection{BirdType: "broiler", Phase: "starter", BirdCount: 1000, Ingredients: []string{"Maize", "Soya DOC"}}

	result := ComputeDailyRation(sel, broilerStarter(), testCatalog())

	require.Len(t, result.Lines, 2)
	assert.Equal(t, models.MethodFormula, result.Method)
	assert.Equal(t, "Maize", result.Lines[0].Name)
	assert.InDelta(t, 73.333, result.Lines[0].Quantity, 0.001)
	assert.Equal(t, "61.1", result.Lines[0].PercentageLabel())
	assert.Equal(t, "Soya DOC", result.Lines[1].Name)
	assert.InDelta(t, 46.667, result.Lines[1].Quantity, 0.001)
	assert.Equal(t, "38.9", result.Lines[1].PercentageLabel())
	assert.InDelta(t, 120.0, result.TotalQuantity, 1e-9)
	assert.InDelta(t, 73.333*24.5+46.667*52, result.TotalCost, 0.1)
}

func TestComputeDailyRation_FormulaPercentagesSumTo100(t *testing.T) {
	selections := [][]string{
		{"Maize"},
		{"Salt", "Coccidiostat"},
		{"Maize", "Soya DOC", "Rice Bran", "Vegetable Oil", "DCP", "Limestone Powder", "Salt", "Broiler Premix", "Toxin Binder", "Coccidiostat"},
		{"Vegetable Oil", "Toxin Binder", "Soya DOC"},
	}

	for _, names := range selections {
		sel := models.Selection{BirdType: "broiler", BirdCount: 777, Ingredients: names}
		result := ComputeDailyRation(sel, broilerStarter(), testCatalog())

		var pct, qty float64
		for _, line := range result.Lines {
			pct += line.Percentage
			qty += line.Quantity
		}
		assert.InDelta(t, 100.0, pct, 0.1, "names=%v", names)
		assert.InDelta(t, DailyFeedKg("broiler", 777), qty, 1e-6, "names=%v", names)
	}
}

func TestComputeDailyRation_FormulaNoMatch(t *testing.T) {
	sel := models.Selection{BirdType: "broiler", BirdCount: 100, Ingredients: []string{"Fish Meal"}}

	result := ComputeDailyRation(sel, broilerStarter(), testCatalog())

	assert.True(t, result.Empty())
	assert.Zero(t, result.TotalQuantity)
}

func TestComputeDailyRation_EmptySelection(t *testing.T) {
	sel := models.Selection{BirdType: "broiler", BirdCount: 100}

	assert.True(t, ComputeDailyRation(sel, broilerStarter(), testCatalog()).Empty())
	assert.True(t, ComputeDailyRation(sel, layerChick(), testCatalog()).Empty())
}

func TestComputeDailyRation_ZeroBirds(t *testing.T) {
	for _, phase := range []models.Phase{broilerStarter(), layerChick()} {
		sel := models.Selection{BirdType: "layer", BirdCount: 0, Ingredients: []string{"Maize", "Soya DOC"}}

		result := ComputeDailyRation(sel, phase, testCatalog())

		require.Len(t, result.Lines, 2)
		var pct float64
		for _, line := range result.Lines {
			assert.Zero(t, line.Quantity)
			assert.Zero(t, line.Cost)
			pct += line.Percentage
		}
		assert.InDelta(t, 100.0, pct, 0.1)
	}
}

func TestComputeDailyRation_DeduplicatesSelection(t *testing.T) {
	sel := models.Selection{BirdType: "broiler", BirdCount: 1000, Ingredients: []string{"Maize", "maize ", "Soya DOC", "Maize"}}

	result := ComputeDailyRation(sel, broilerStarter(), testCatalog())

	require.Len(t, result.Lines, 2)
	assert.InDelta(t, 73.333, result.Lines[0].Quantity, 0.001)
}

func TestComputeDailyRation_CatalogFirstOccurrenceWins(t *testing.T) {
	sel := models.Selection{BirdType: "layer", BirdCount: 100, Ingredients: []string{"Maize"}}

	result := ComputeDailyRation(sel, layerChick(), testCatalog())

	require.Len(t, result.Lines, 1)
	assert.Equal(t, 8.5, result.Lines[0].Ingredient.ProteinPercentage)
}

func TestComputeDailyRation_Heuristic(t *testing.T) {
	sel := models.Selection{BirdType: "layer", BirdCount: 1000, Ingredients: []string{"Maize", "Soya DOC", "Salt", "Vegetable Oil"}}

	result := ComputeDailyRation(sel, layerChick(), testCatalog())

	require.Len(t, result.Lines, 4)
	assert.Equal(t, models.MethodHeuristic, result.Method)

	// maize 2, soya 2.5, salt 0.1, oil 0.8
	const sum = 5.4
	total := 130.0
	assert.InDelta(t, total*2/sum, result.Lines[0].Quantity, 1e-9)
	assert.InDelta(t, total*2.5/sum, result.Lines[1].Quantity, 1e-9)
	assert.InDelta(t, total*0.1/sum, result.Lines[2].Quantity, 1e-9)
	assert.InDelta(t, total*0.8/sum, result.Lines[3].Quantity, 1e-9)

	var weights, qty float64
	for _, line := range result.Lines {
		weights += line.Percentage / 100
		qty += line.Quantity
	}
	assert.InDelta(t, 1.0, weights, 1e-9)
	assert.InDelta(t, total, qty, 1e-9)
}

func TestComputeDailyRation_HeuristicUnknownIngredient(t *testing.T) {
	sel := models.Selection{BirdType: "layer", BirdCount: 10, Ingredients: []string{"Mystery Meal"}}

	result := ComputeDailyRation(sel, layerChick(), testCatalog())

	require.Len(t, result.Lines, 1)
	assert.InDelta(t, 1.3, result.Lines[0].Quantity, 1e-9)
	assert.Zero(t, result.Lines[0].Cost)
}

func TestHeuristicWeight(t *testing.T) {
	tests := []struct {
		name    string
		ing     models.Ingredient
		protein float64
		energy  float64
		want    float64
	}{
		{"base", models.Ingredient{Name: "Hay"}, 18, 2700, 1},
		{"high protein target", models.Ingredient{Name: "Fish Meal", ProteinPercentage: 60}, 22, 2900, 3},
		{"medium protein target", models.Ingredient{Name: "Cake", ProteinPercentage: 25}, 16, 2700, 2.5},
		{"high energy target", models.Ingredient{Name: "Maize", EnergyKcalPerKg: 3350}, 10, 3100, 2.5},
		{"moderate energy", models.Ingredient{Name: "Bran", EnergyKcalPerKg: 2650}, 10, 3100, 2},
		{"premix override", models.Ingredient{Name: "Layer Premix", ProteinPercentage: 50}, 22, 3100, 0.1},
		{"dcp override", models.Ingredient{Name: "DCP"}, 22, 3100, 0.1},
		{"oil override", models.Ingredient{Name: "Palm oil", EnergyKcalPerKg: 8800}, 22, 3100, 0.8},
		{"mineral wins over oil", models.Ingredient{Name: "Oil Premix"}, 22, 3100, 0.1},
		{"explicit classification", models.Ingredient{Name: "Maize", Classification: models.ClassMineral, EnergyKcalPerKg: 3350}, 22, 3100, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HeuristicWeight(tt.ing, tt.protein, tt.energy), 1e-9)
		})
	}
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, 20.0, ParseTarget("20–22%"))
	assert.Equal(t, 2900.0, ParseTarget("2900–3000 kcal/kg"))
	assert.Equal(t, 2800.0, ParseTarget("2800 kcal/kg"))
	assert.Equal(t, 18.5, ParseTarget(" 18.5%"))
	assert.Zero(t, ParseTarget("n/a"))
	assert.Zero(t, ParseTarget(""))
}

func TestComputeNutrientProfile(t *testing.T) {
	sel := models.Selection{BirdType: "broiler", BirdCount: 1000, Ingredients: []string{"Maize", "Soya DOC"}}
	result := ComputeDailyRation(sel, broilerStarter(), testCatalog())

	profile := ComputeNutrientProfile(result, result.TotalQuantity)

	maize, soya := 550.0/900, 350.0/900
	assert.InDelta(t, maize*8.5+soya*44, profile.Protein, 1e-9)
	assert.InDelta(t, maize*3.8+soya*0.8, profile.Fat, 1e-9)
	assert.InDelta(t, maize*14+soya*12, profile.Moisture, 1e-9)
	assert.InDelta(t, 100-profile.Moisture, profile.DryMatter, 1e-9)
	assert.InDelta(t, 100.0, profile.Sum(), 1e-9)
}

func TestComputeNutrientProfile_OverHundredSurfaced(t *testing.T) {
	result := models.AllocationResult{Lines: []models.AllocationLine{
		{Ingredient: models.Ingredient{Name: "DCP", AshPercentage: 95, MoisturePercentage: 8}, Quantity: 10},
	}}

	profile := ComputeNutrientProfile(result, 10)

	assert.Zero(t, profile.Carbohydrate)
	assert.InDelta(t, 103.0, profile.Sum(), 1e-9)
}

func TestComputeNutrientProfile_ZeroTotal(t *testing.T) {
	result := models.AllocationResult{Lines: []models.AllocationLine{
		{Ingredient: models.Ingredient{Name: "Maize", ProteinPercentage: 8.5}, Quantity: 0},
	}}

	assert.Equal(t, models.NutrientProfile{}, ComputeNutrientProfile(result, 0))
}
