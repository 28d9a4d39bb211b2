package ration

import (
	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

// ComputeNutrientProfile weights each line's composition by its share of
// totalKg. Carbohydrate is the residual up to 100 and never negative; known
// nutrients above 100 are reported as they are. A non-positive total yields
// an all-zero profile.
func ComputeNutrientProfile(result models.AllocationResult, totalKg float64) models.NutrientProfile {
	if totalKg <= 0 {
		return models.NutrientProfile{}
	}

	var p models.NutrientProfile
	for _, line := range result.Lines {
		proportion := line.Quantity / totalKg
		p.Protein += proportion * line.Ingredient.ProteinPercentage
		p.Fat += proportion * line.Ingredient.FatPercentage
		p.Fiber += proportion * line.Ingredient.FiberPercentage
		p.Ash += proportion * line.Ingredient.AshPercentage
		p.Moisture += proportion * line.Ingredient.MoisturePercentage
	}

	known := p.Protein + p.Fat + p.Fiber + p.Ash + p.Moisture
	if known < 100 {
		p.Carbohydrate = 100 - known
	}
	p.DryMatter = 100 - p.Moisture

	return p
}
