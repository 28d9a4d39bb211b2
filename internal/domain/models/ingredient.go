package models

import (
	"strings"
	"time"
)

// IngredientCategory is the catalog grouping shown to farmers.
type IngredientCategory string

const (
	CategoryEnergy   IngredientCategory = "Energy Sources"
	CategoryProtein  IngredientCategory = "Protein Sources"
	CategoryMinerals IngredientCategory = "Minerals"
	CategoryAdditive IngredientCategory = "Additives"
	CategoryOther    IngredientCategory = "Other"
)

// Categories lists the accepted ingredient categories in display order.
var Categories = []IngredientCategory{CategoryProtein, CategoryEnergy, CategoryMinerals, CategoryAdditive, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c IngredientCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Classification drives the allocation overrides of the ration heuristic.
type Classification string

const (
	ClassStaple             Classification = "staple"
	ClassProteinConcentrate Classification = "protein_concentrate"
	ClassEnergyConcentrate  Classification = "energy_concentrate"
	ClassMineral            Classification = "mineral"
	ClassAdditive           Classification = "additive"
)

// Classifications lists the accepted explicit classifications.
var Classifications = []Classification{ClassStaple, ClassProteinConcentrate, ClassEnergyConcentrate, ClassMineral, ClassAdditive}

// Valid reports whether c is empty or one of the known classifications.
func (c Classification) Valid() bool {
	if c == "" {
		return true
	}
	for _, known := range Classifications {
		if c == known {
			return true
		}
	}
	return false
}

// Ingredient is a catalog record. Absent numeric fields decode to zero and
// are treated as nutritionally inert.
type Ingredient struct {
	ID                   string             `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name" binding:"required"`
	Category             IngredientCategory `bson:"category" json:"category"`
	Classification       Classification     `bson:"classification,omitempty" json:"classification,omitempty"`
	ProteinPercentage    float64            `bson:"protein_percentage" json:"protein_percentage"`
	FatPercentage        float64            `bson:"fat_percentage" json:"fat_percentage"`
	FiberPercentage      float64            `bson:"fiber_percentage" json:"fiber_percentage"`
	AshPercentage        float64            `bson:"ash_percentage" json:"ash_percentage"`
	MoisturePercentage   float64            `bson:"moisture_percentage" json:"moisture_percentage"`
	EnergyKcalPerKg      float64            `bson:"energy_kcal_per_kg" json:"energy_kcal_per_kg"`
	CalciumPercentage    float64            `bson:"calcium_percentage" json:"calcium_percentage"`
	PhosphorusPercentage float64            `bson:"phosphorus_percentage" json:"phosphorus_percentage"`
	CostPerKg            float64            `bson:"cost_per_kg" json:"cost_per_kg"`
	IsDefault            bool               `bson:"is_default" json:"is_default"`
	PriceSource          string             `bson:"price_source,omitempty" json:"price_source,omitempty"`
	PriceUpdatedAt       *time.Time         `bson:"price_updated_at,omitempty" json:"price_updated_at,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// EffectiveClassification returns the explicit classification when set and
// otherwise infers one from the ingredient name. Mineral and additive
// matches take precedence over the oil match.
func (i Ingredient) EffectiveClassification() Classification {
	if i.Classification != "" {
		return i.Classification
	}
	return ClassifyName(i.Name)
}

// ClassifyName maps well-known ingredient names to a classification.
func ClassifyName(name string) Classification {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "premix"):
		return ClassAdditive
	case strings.Contains(lower, "salt"), strings.Contains(lower, "limestone"), strings.Contains(lower, "dcp"):
		return ClassMineral
	case strings.Contains(lower, "oil"):
		return ClassEnergyConcentrate
	}
	return ClassStaple
}

// NameKey normalizes an ingredient name for lookups and de-duplication.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Catalog is an in-memory snapshot of ingredient records keyed by name.
type Catalog struct {
	items  []Ingredient
	byName map[string]int
	byID   map[string]int
}

// NewCatalog indexes the provided records. The first record wins when two
// share a name.
func NewCatalog(items []Ingredient) Catalog {
	c := Catalog{
		byName: make(map[string]int, len(items)),
		byID:   make(map[string]int, len(items)),
	}
	for _, item := range items {
		key := NameKey(item.Name)
		if _, exists := c.byName[key]; exists {
			continue
		}
		c.byName[key] = len(c.items)
		if item.ID != "" {
			c.byID[item.ID] = len(c.items)
		}
		c.items = append(c.items, item)
	}
	return c
}

// Lookup resolves an ingredient by name (case-insensitive) or by id.
func (c Catalog) Lookup(ref string) (Ingredient, bool) {
	if idx, ok := c.byName[NameKey(ref)]; ok {
		return c.items[idx], true
	}
	if idx, ok := c.byID[ref]; ok {
		return c.items[idx], true
	}
	return Ingredient{}, false
}

// Resolve returns the catalog record for ref, or a bare record carrying only
// the name when the catalog does not know it.
func (c Catalog) Resolve(ref string) Ingredient {
	if ing, ok := c.Lookup(ref); ok {
		return ing
	}
	return Ingredient{Name: strings.TrimSpace(ref)}
}

// Items returns the de-duplicated records in insertion order.
func (c Catalog) Items() []Ingredient {
	out := make([]Ingredient, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct ingredients.
func (c Catalog) Len() int {
	return len(c.items)
}
