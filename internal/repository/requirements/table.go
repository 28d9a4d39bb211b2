package requirements

import (
	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

// Table exposes bird types and their phase requirements.
type Table interface {
	BirdTypes() []models.BirdType
	FindBirdType(id string) (models.BirdType, bool)
	FindPhase(birdType, phase string) (models.Phase, bool)
}

// StaticTable serves the built-in requirement data.
type StaticTable struct {
	birdTypes []models.BirdType
}

// NewStaticTable returns the built-in broiler and layer requirements.
func NewStaticTable() *StaticTable {
	return &StaticTable{birdTypes: defaultBirdTypes()}
}

// BirdTypes returns a copy of all bird types.
func (t *StaticTable) BirdTypes() []models.BirdType {
	out := make([]models.BirdType, len(t.birdTypes))
	copy(out, t.birdTypes)
	return out
}

// FindBirdType looks a bird type up by id.
func (t *StaticTable) FindBirdType(id string) (models.BirdType, bool) {
	for _, bird := range t.birdTypes {
		if bird.ID == id {
			return bird, true
		}
	}
	return models.BirdType{}, false
}

// FindPhase looks a phase up by bird type id and phase id.
func (t *StaticTable) FindPhase(birdType, phase string) (models.Phase, bool) {
	bird, ok := t.FindBirdType(birdType)
	if !ok {
		return models.Phase{}, false
	}
	return bird.FindPhase(phase)
}

var (
	broilerPrestarter = models.Formula{
		{Ingredient: "Maize", Parts: 530},
		{Ingredient: "Soya DOC", Parts: 380},
		{Ingredient: "Rice Bran", Parts: 20},
		{Ingredient: "Vegetable Oil", Parts: 35},
		{Ingredient: "DCP", Parts: 20},
		{Ingredient: "Limestone Powder", Parts: 8},
		{Ingredient: "Salt", Parts: 3},
		{Ingredient: "Broiler Premix", Parts: 2.5},
		{Ingredient: "Toxin Binder", Parts: 1},
		{Ingredient: "Coccidiostat", Parts: 0.5},
	}
	broilerStarter = models.Formula{
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
	}
	broilerFinisher = models.Formula{
		{Ingredient: "Maize", Parts: 580},
		{Ingredient: "Soya DOC", Parts: 300},
		{Ingredient: "Rice Bran", Parts: 30},
		{Ingredient: "Vegetable Oil", Parts: 50},
		{Ingredient: "DCP", Parts: 15},
		{Ingredient: "Limestone Powder", Parts: 7},
		{Ingredient: "Salt", Parts: 3},
		{Ingredient: "Broiler Premix", Parts: 2.5},
		{Ingredient: "Toxin Binder", Parts: 1},
		{Ingredient: "Coccidiostat", Parts: 0.5},
	}
	layerGrower = models.Formula{
		{Ingredient: "Maize", Parts: 580},
		{Ingredient: "Soya DOC", Parts: 250},
		{Ingredient: "Rice Bran", Parts: 80},
		{Ingredient: "Vegetable Oil", Parts: 25},
		{Ingredient: "DCP", Parts: 20},
		{Ingredient: "Limestone Powder", Parts: 25},
		{Ingredient: "Salt", Parts: 3},
		{Ingredient: "Layer Premix", Parts: 2.5},
		{Ingredient: "Toxin Binder", Parts: 1},
	}
	layerFeed = models.Formula{
		{Ingredient: "Maize", Parts: 550},
		{Ingredient: "Soya DOC", Parts: 200},
		{Ingredient: "Rice Bran", Parts: 80},
		{Ingredient: "Vegetable Oil", Parts: 30},
		{Ingredient: "DCP", Parts: 18},
		{Ingredient: "Limestone Powder", Parts: 100},
		{Ingredient: "Salt", Parts: 3},
		{Ingredient: "Layer Premix", Parts: 2.5},
		{Ingredient: "Toxin Binder", Parts: 1},
	}
)

func defaultBirdTypes() []models.BirdType {
	return []models.BirdType{
		{
			ID:   "broiler",
			Name: "Broiler",
			Phases: []models.Phase{
				{ID: "prestarter", Name: "Pre-starter", AgeRange: "0–10 days", Protein: "22–23%", Energy: "2900–3000 kcal/kg", Formula: broilerPrestarter},
				{ID: "starter", Name: "Starter", AgeRange: "11–21 days", Protein: "20–22%", Energy: "3000–3100 kcal/kg", Formula: broilerStarter},
				{ID: "finisher", Name: "Finisher", AgeRange: "22–42 days", Protein: "18–19%", Energy: "3200–3300 kcal/kg", Formula: broilerFinisher},
			},
		},
		{
			ID:   "layer",
			Name: "Layer",
			Phases: []models.Phase{
				{ID: "chick", Name: "Chick", AgeRange: "0–8 weeks", Protein: "20–21%", Energy: "2800 kcal/kg"},
				{ID: "grower", Name: "Grower", AgeRange: "9–18 weeks", Protein: "16–17%", Energy: "2700 kcal/kg", Formula: layerGrower},
				{ID: "prelay", Name: "Pre-lay", AgeRange: "19–20 weeks", Protein: "17–18%", Energy: "2750 kcal/kg"},
				{ID: "layer1", Name: "Layer 1", AgeRange: "21–40 weeks", Protein: "18–19%", Energy: "2750–2800 kcal/kg", Formula: layerFeed},
				{ID: "layer2", Name: "Layer 2", AgeRange: "41–72 weeks", Protein: "16–17%", Energy: "2700–2750 kcal/kg", Formula: layerFeed},
			},
		},
	}
}

// DefaultIngredients is the seed catalog inserted on first start.
func DefaultIngredients() []models.Ingredient {
	return []models.Ingredient{
		{Name: "Maize", Category: models.CategoryEnergy, Classification: models.ClassStaple, ProteinPercentage: 8.5, EnergyKcalPerKg: 3350, FatPercentage: 3.8, FiberPercentage: 2.2, MoisturePercentage: 14.0, AshPercentage: 1.3},
		{Name: "Soya DOC", Category: models.CategoryProtein, Classification: models.ClassProteinConcentrate, ProteinPercentage: 44.0, EnergyKcalPerKg: 2230, FatPercentage: 0.8, FiberPercentage: 7.0, MoisturePercentage: 12.0, AshPercentage: 6.5},
		{Name: "Rice Bran", Category: models.CategoryEnergy, Classification: models.ClassStaple, ProteinPercentage: 12.5, EnergyKcalPerKg: 2650, FatPercentage: 15.0, FiberPercentage: 12.0, MoisturePercentage: 12.0, AshPercentage: 12.0},
		{Name: "Vegetable Oil", Category: models.CategoryEnergy, Classification: models.ClassEnergyConcentrate, EnergyKcalPerKg: 8800, FatPercentage: 99.0, MoisturePercentage: 0.2},
		{Name: "DCP", Category: models.CategoryMinerals, Classification: models.ClassMineral, MoisturePercentage: 8.0, AshPercentage: 95.0},
		{Name: "Limestone Powder", Category: models.CategoryMinerals, Classification: models.ClassMineral, MoisturePercentage: 2.0, AshPercentage: 98.0},
		{Name: "Salt", Category: models.CategoryMinerals, Classification: models.ClassMineral, MoisturePercentage: 2.0, AshPercentage: 98.0},
		{Name: "Broiler Premix", Category: models.CategoryAdditive, Classification: models.ClassAdditive, MoisturePercentage: 10.0, AshPercentage: 80.0},
		{Name: "Layer Premix", Category: models.CategoryAdditive, Classification: models.ClassAdditive, MoisturePercentage: 10.0, AshPercentage: 80.0},
		{Name: "Toxin Binder", Category: models.CategoryAdditive, Classification: models.ClassStaple, MoisturePercentage: 12.0, AshPercentage: 85.0},
		{Name: "Coccidiostat", Category: models.CategoryAdditive, Classification: models.ClassStaple, MoisturePercentage: 5.0, AshPercentage: 90.0},
	}
}
