package commands

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/feedplanner/internal/domain/models"
)

// HelpText lists the supported chat commands.
const HelpText = `Feed planner commands:
/plan <bird> <phase> <count> [ingredient, ...]
/optimize <bird> <phase> [ingredient, ...]
/prices [refresh]
/phases
Example: /plan broiler starter 1000 Maize, Soya DOC`

func formatPlan(plan models.FeedPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s), %d birds\n", plan.BirdTypeName, plan.Phase.Name, plan.Phase.AgeRange, plan.Selection.BirdCount)
	fmt.Fprintf(&b, "Daily feed: %.1f kg (%s)\n", plan.DailyFeedKg, plan.Allocation.Method)

	if plan.Allocation.Empty() {
		b.WriteString("None of the selected ingredients fit this phase.")
		return b.String()
	}

	writeLines(&b, plan.Allocation)
	fmt.Fprintf(&b, "Total cost: %.2f\n", plan.Allocation.TotalCost)

	n := plan.Nutrients
	fmt.Fprintf(&b, "Protein %.1f%% | Fat %.1f%% | Fiber %.1f%% | Carbs %.1f%%", n.Protein, n.Fat, n.Fiber, n.Carbohydrate)
	return b.String()
}

func formatOptimization(sel models.Selection, result models.OptimizationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Least-cost 1 kg batch for %s %s\n", sel.BirdType, sel.Phase)

	if result.Allocation.Empty() {
		b.WriteString("No ingredient reached a useful share.")
		return b.String()
	}

	writeLines(&b, result.Allocation)
	fmt.Fprintf(&b, "Batch cost: %.2f\n", result.TotalCost)
	fmt.Fprintf(&b, "Saved vs equal split: %.2f", result.CostSaved)
	return b.String()
}

func writeLines(b *strings.Builder, result models.AllocationResult) {
	for _, line := range result.Lines {
		fmt.Fprintf(b, "- %s: %.2f %s (%s%%) %.2f\n", line.Name, line.Quantity, line.Unit, line.PercentageLabel(), line.Cost)
	}
}

func formatPrices(items []models.Ingredient) string {
	if len(items) == 0 {
		return "The ingredient catalog is empty."
	}
	var b strings.Builder
	b.WriteString("Ingredient prices (per kg):")
	for _, item := range items {
		fmt.Fprintf(&b, "\n- %s: %.2f", item.Name, item.CostPerKg)
		if item.PriceUpdatedAt != nil {
			fmt.Fprintf(&b, " (%s)", item.PriceUpdatedAt.Format("2006-01-02"))
		}
	}
	return b.String()
}

func formatPhases(birds []models.BirdType) string {
	var b strings.Builder
	for i, bird := range birds {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%s):", bird.Name, bird.ID)
		for _, phase := range bird.Phases {
			fmt.Fprintf(&b, "\n- %s: %s, protein %s, energy %s", phase.ID, phase.AgeRange, phase.Protein, phase.Energy)
		}
	}
	return b.String()
}
