// Package ration turns a flock selection and an ingredient catalog into
// daily ingredient quantities, a nutrient summary and a greedy low-cost
// allocation. Every function here is pure and safe for concurrent use.
package ration

import (
	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

const (
	broilerBirdType = "broiler"

	broilerFeedPerBirdGrams = 120.0
	defaultFeedPerBirdGrams = 130.0
)

// FeedPerBirdGrams returns the daily intake assumed for one bird. The value
// does not vary by phase.
func FeedPerBirdGrams(birdType string) float64 {
	if birdType == broilerBirdType {
		return broilerFeedPerBirdGrams
	}
	return defaultFeedPerBirdGrams
}

// DailyFeedKg computes the flock's total daily feed mass. Non-positive bird
// counts yield zero.
func DailyFeedKg(birdType string, birdCount int) float64 {
	if birdCount <= 0 {
		return 0
	}
	return float64(birdCount) * FeedPerBirdGrams(birdType) / 1000
}

// ComputeDailyRation distributes the flock's daily feed across the selected
// ingredients. Phases with a reference formula are proportioned from the
// formula restricted to the selection; other phases use the nutrient-density
// heuristic.
func ComputeDailyRation(sel models.Selection, phase models.Phase, catalog models.Catalog) models.AllocationResult {
	names := uniqueNames(sel.Ingredients)
	totalKg := DailyFeedKg(sel.BirdType, sel.BirdCount)

	if len(names) == 0 {
		return emptyResult(methodFor(phase))
	}

	if phase.HasFormula() {
		return formulaAllocation(phase.Formula, names, totalKg, catalog)
	}

	return heuristicAllocation(phase, names, totalKg, catalog)
}

func formulaAllocation(formula models.Formula, names []string, totalKg float64, catalog models.Catalog) models.AllocationResult {
	selected := make(map[string]struct{}, len(names))
	for _, name := range names {
		selected[models.NameKey(name)] = struct{}{}
	}

	var filtered models.Formula
	seen := make(map[string]struct{}, len(formula))
	for _, entry := range formula {
		key := models.NameKey(entry.Ingredient)
		if _, ok := selected[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		filtered = append(filtered, entry)
	}

	totalParts := filtered.TotalParts()
	if len(filtered) == 0 || totalParts <= 0 {
		return emptyResult(models.MethodFormula)
	}

	weights := make([]weighted, 0, len(filtered))
	for _, entry := range filtered {
		weights = append(weights, weighted{
			ingredient: catalog.Resolve(entry.Ingredient),
			weight:     entry.Parts / totalParts,
		})
	}

	return buildResult(models.MethodFormula, weights, totalKg)
}

type weighted struct {
	ingredient models.Ingredient
	weight     float64
}

// buildResult expects weights already normalized to sum to 1.
func buildResult(method models.AllocationMethod, weights []weighted, totalKg float64) models.AllocationResult {
	result := models.AllocationResult{
		Method: method,
		Unit:   models.UnitKilogram,
		Lines:  make([]models.AllocationLine, 0, len(weights)),
	}

	for _, w := range weights {
		quantity := totalKg * w.weight
		cost := quantity * w.ingredient.CostPerKg
		result.Lines = append(result.Lines, models.AllocationLine{
			Ingredient: w.ingredient,
			Name:       w.ingredient.Name,
			Quantity:   quantity,
			Unit:       models.UnitKilogram,
			Percentage: w.weight * 100,
			Cost:       cost,
		})
		result.TotalQuantity += quantity
		result.TotalCost += cost
	}

	return result
}

func emptyResult(method models.AllocationMethod) models.AllocationResult {
	return models.AllocationResult{Method: method, Unit: models.UnitKilogram, Lines: []models.AllocationLine{}}
}

func methodFor(phase models.Phase) models.AllocationMethod {
	if phase.HasFormula() {
		return models.MethodFormula
	}
	return models.MethodHeuristic
}

// uniqueNames drops blanks and repeated names, keeping the first occurrence.
func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := models.NameKey(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
