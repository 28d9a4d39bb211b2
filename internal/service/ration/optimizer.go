package ration

import (
	"sort"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

const (
	// BatchSize is the reference batch the optimizer distributes, in grams.
	// It is not scaled to the flock's daily ration.
	BatchSize = 1000.0

	maxShareOfRemaining = 0.7
	minCommitQuantity   = 5.0
	minCostPerKg        = 0.01
)

// OptimizeAllocation greedily fills a 1000 g batch, favouring ingredients
// with the most protein per unit cost until the protein target is met, then
// the energy target, then splitting what is left. It is a single pass with
// no backtracking and does not guarantee either target is reached.
func OptimizeAllocation(ingredients []models.Ingredient, targetProtein, targetEnergy float64) models.OptimizationResult {
	available := uniqueIngredients(ingredients)
	result := models.OptimizationResult{
		Allocation: models.AllocationResult{
			Method: models.MethodOptimizer,
			Unit:   models.UnitGram,
			Lines:  []models.AllocationLine{},
		},
	}
	if len(available) == 0 {
		return result
	}

	sorted := make([]models.Ingredient, len(available))
	copy(sorted, available)
	sort.SliceStable(sorted, func(i, j int) bool {
		return proteinPerCost(sorted[i]) > proteinPerCost(sorted[j])
	})

	var currentProtein, currentEnergy, currentCost float64
	remaining := BatchSize
	lines := result.Allocation.Lines

	for _, ing := range sorted {
		if remaining <= 0 {
			break
		}

		var quantity float64
		switch {
		case currentProtein < targetProtein && ing.ProteinPercentage > 0:
			gap := targetProtein - currentProtein
			quantity = min(gap/ing.ProteinPercentage*BatchSize, remaining*maxShareOfRemaining)
		case currentEnergy < targetEnergy && ing.EnergyKcalPerKg > 0:
			gap := targetEnergy - currentEnergy
			quantity = min(gap/ing.EnergyKcalPerKg*BatchSize, remaining*maxShareOfRemaining)
		default:
			quantity = remaining / float64(len(sorted)-len(lines))
		}
		quantity = min(quantity, remaining)

		if quantity <= minCommitQuantity {
			continue
		}

		share := quantity / BatchSize
		cost := share * ing.CostPerKg
		currentProtein += share * ing.ProteinPercentage
		currentEnergy += share * ing.EnergyKcalPerKg
		currentCost += cost
		remaining -= quantity

		lines = append(lines, models.AllocationLine{
			Ingredient: ing,
			Name:       ing.Name,
			Quantity:   quantity,
			Unit:       models.UnitGram,
			Percentage: share * 100,
			Cost:       cost,
		})
	}

	result.Allocation.Lines = lines
	for _, line := range lines {
		result.Allocation.TotalQuantity += line.Quantity
	}
	result.Allocation.TotalCost = currentCost
	result.TotalCost = currentCost
	result.CostSaved = max(0, EqualSplitCost(available)-currentCost)

	return result
}

// EqualSplitCost prices a batch split evenly across all ingredients.
func EqualSplitCost(ingredients []models.Ingredient) float64 {
	if len(ingredients) == 0 {
		return 0
	}
	share := BatchSize / float64(len(ingredients)) / BatchSize
	var total float64
	for _, ing := range ingredients {
		total += share * ing.CostPerKg
	}
	return total
}

func proteinPerCost(ing models.Ingredient) float64 {
	return ing.ProteinPercentage / max(ing.CostPerKg, minCostPerKg)
}

func uniqueIngredients(ingredients []models.Ingredient) []models.Ingredient {
	out := make([]models.Ingredient, 0, len(ingredients))
	seen := make(map[string]struct{}, len(ingredients))
	for _, ing := range ingredients {
		key := models.NameKey(ing.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ing)
	}
	return out
}
