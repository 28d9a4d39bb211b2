package models

// FormulaEntry is one ingredient of a reference formula, in parts of ~1000.
type FormulaEntry struct {
	Ingredient string  `json:"ingredient"`
	Parts      float64 `json:"parts"`
}

// Formula is an ordered reference ration for a phase.
type Formula []FormulaEntry

// TotalParts sums the formula weights.
func (f Formula) TotalParts() float64 {
	var total float64
	for _, entry := range f {
		total += entry.Parts
	}
	return total
}

// Phase describes a growth stage with its nutrient targets.
type Phase struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	AgeRange string  `json:"age_range"`
	Protein  string  `json:"protein"`
	Energy   string  `json:"energy"`
	Formula  Formula `json:"formula,omitempty"`
}

// HasFormula reports whether the phase carries a reference formula.
func (p Phase) HasFormula() bool {
	return len(p.Formula) > 0
}

// BirdType groups the phases of a bird category (broiler, layer).
type BirdType struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phases []Phase `json:"phases"`
}

// FindPhase returns the phase with the provided id.
func (b BirdType) FindPhase(id string) (Phase, bool) {
	for _, phase := range b.Phases {
		if phase.ID == id {
			return phase, true
		}
	}
	return Phase{}, false
}
