package models

import (
	"fmt"
	"time"
)

// AllocationMethod names the allocator that produced a result.
type AllocationMethod string

const (
	MethodFormula   AllocationMethod = "formula"
	MethodHeuristic AllocationMethod = "heuristic"
	MethodOptimizer AllocationMethod = "optimizer"
)

const (
	UnitKilogram = "kg"
	UnitGram     = "g"
)

// Selection is the farmer's input for a single calculation.
type Selection struct {
	BirdType    string   `json:"bird_type" bson:"bird_type"`
	Phase       string   `json:"phase" bson:"phase"`
	BirdCount   int      `json:"bird_count" bson:"bird_count"`
	Ingredients []string `json:"ingredients" bson:"ingredients"`
}

// AllocationLine is one ingredient share of a ration.
type AllocationLine struct {
	Ingredient Ingredient `json:"-" bson:"-"`
	Name       string     `json:"ingredient" bson:"ingredient"`
	Quantity   float64    `json:"quantity" bson:"quantity"`
	Unit       string     `json:"unit" bson:"unit"`
	Percentage float64    `json:"percentage" bson:"percentage"`
	Cost       float64    `json:"cost" bson:"cost"`
}

// PercentageLabel renders the share with one decimal place.
func (l AllocationLine) PercentageLabel() string {
	return fmt.Sprintf("%.1f", l.Percentage)
}

// AllocationResult is an ordered set of ingredient quantities with totals.
type AllocationResult struct {
	Method        AllocationMethod `json:"method" bson:"method"`
	Lines         []AllocationLine `json:"lines" bson:"lines"`
	Unit          string           `json:"unit" bson:"unit"`
	TotalQuantity float64          `json:"total_quantity" bson:"total_quantity"`
	TotalCost     float64          `json:"total_cost" bson:"total_cost"`
}

// Empty reports whether no ingredient received a share.
func (r AllocationResult) Empty() bool {
	return len(r.Lines) == 0
}

// NutrientProfile is the weighted composition of a blended ration.
type NutrientProfile struct {
	Protein      float64 `json:"protein" bson:"protein"`
	Fat          float64 `json:"fat" bson:"fat"`
	Fiber        float64 `json:"fiber" bson:"fiber"`
	Ash          float64 `json:"ash" bson:"ash"`
	Moisture     float64 `json:"moisture" bson:"moisture"`
	Carbohydrate float64 `json:"carbohydrate" bson:"carbohydrate"`
	DryMatter    float64 `json:"dry_matter" bson:"dry_matter"`
}

// Sum adds the six composition fields.
func (p NutrientProfile) Sum() float64 {
	return p.Protein + p.Fat + p.Fiber + p.Ash + p.Moisture + p.Carbohydrate
}

// OptimizationResult is the greedy allocator output over a reference batch.
type OptimizationResult struct {
	Allocation AllocationResult `json:"allocation" bson:"allocation"`
	TotalCost  float64          `json:"total_cost" bson:"total_cost"`
	CostSaved  float64          `json:"cost_saved" bson:"cost_saved"`
}

// FeedPlan is a computed plan as persisted and exported.
type FeedPlan struct {
	ID           string              `json:"id" bson:"_id,omitempty"`
	Selection    Selection           `json:"selection" bson:"selection"`
	BirdTypeName string              `json:"bird_type_name" bson:"bird_type_name"`
	Phase        Phase               `json:"phase" bson:"phase"`
	DailyFeedKg  float64             `json:"daily_feed_kg" bson:"daily_feed_kg"`
	Allocation   AllocationResult    `json:"allocation" bson:"allocation"`
	Nutrients    NutrientProfile     `json:"nutrients" bson:"nutrients"`
	Optimization *OptimizationResult `json:"optimization,omitempty" bson:"optimization,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
}
