package ration

import (
	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

const (
	baseWeight          = 1.0
	mineralWeight       = 0.1
	energyConcentrateWt = 0.8
	minWeight           = 0.1
)

// heuristicAllocation weights ingredients by how well they match the phase
// targets when no reference formula exists.
func heuristicAllocation(phase models.Phase, names []string, totalKg float64, catalog models.Catalog) models.AllocationResult {
	targetProtein := ParseTarget(phase.Protein)
	targetEnergy := ParseTarget(phase.Energy)

	weights := make([]weighted, 0, len(names))
	var sum float64
	for _, name := range names {
		ing := catalog.Resolve(name)
		w := HeuristicWeight(ing, targetProtein, targetEnergy)
		weights = append(weights, weighted{ingredient: ing, weight: w})
		sum += w
	}

	for i := range weights {
		weights[i].weight /= sum
	}

	return buildResult(models.MethodHeuristic, weights, totalKg)
}

// HeuristicWeight scores a single ingredient before normalization.
// Mineral and additive classifications override to a floor share; energy
// concentrates override to a moderate share. The result is never below 0.1.
func HeuristicWeight(ing models.Ingredient, targetProtein, targetEnergy float64) float64 {
	w := baseWeight

	switch {
	case targetProtein > 20 && ing.ProteinPercentage > 30:
		w += 2
	case targetProtein > 15 && ing.ProteinPercentage > 20:
		w += 1.5
	}

	switch {
	case targetEnergy > 3000 && ing.EnergyKcalPerKg > 3000:
		w += 1.5
	case ing.EnergyKcalPerKg > 2500:
		w += 1
	}

	switch ing.EffectiveClassification() {
	case models.ClassMineral, models.ClassAdditive:
		w = mineralWeight
	case models.ClassEnergyConcentrate:
		w = energyConcentrateWt
	}

	if w < minWeight {
		w = minWeight
	}
	return w
}
