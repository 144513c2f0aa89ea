package model

// MacroThresholds bounds a macronutrient query: protein is a floor, the
// others are ceilings.
type MacroThresholds struct {
	Protein  float64 `form:"protein" json:"protein" yaml:"protein" binding:"gte=0"`
	Calories float64 `form:"calories" json:"calories" yaml:"calories" binding:"gte=0"`
	Sodium   float64 `form:"sodium" json:"sodium" yaml:"sodium" binding:"gte=0"`
	Fat      float64 `form:"fat" json:"fat" yaml:"fat" binding:"gte=0"`
}

// Satisfies reports whether the recipe meets every threshold. Missing
// values never satisfy a threshold.
func (t MacroThresholds) Satisfies(r Recipe) bool {
	return r.Protein != nil && *r.Protein >= t.Protein &&
		r.Calories != nil && *r.Calories <= t.Calories &&
		r.Sodium != nil && *r.Sodium <= t.Sodium &&
		r.Fat != nil && *r.Fat <= t.Fat
}
