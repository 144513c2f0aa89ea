package api

import "github.com/pageza/alchemorsel-insights/backend/internal/model"

// MacrosQuery binds GET /insights/macros. Defaults match the report command.
type MacrosQuery struct {
	Protein  float64 `form:"protein,default=30" binding:"gte=0"`
	Calories float64 `form:"calories,default=300" binding:"gte=0"`
	Sodium   float64 `form:"sodium,default=400" binding:"gte=0"`
	Fat      float64 `form:"fat,default=20" binding:"gte=0"`
	Num      int     `form:"num,default=10"`
}

func (q MacrosQuery) Thresholds() model.MacroThresholds {
	return model.MacroThresholds{Protein: q.Protein, Calories: q.Calories, Sodium: q.Sodium, Fat: q.Fat}
}

// IngredientCountQuery binds GET /insights/ingredients/count.
type IngredientCountQuery struct {
	Max int `form:"max,default=3" binding:"gte=0"`
	Num int `form:"num,default=10"`
}

// SearchQuery binds GET /insights/ingredients/search.
type SearchQuery struct {
	Pattern string `form:"q" binding:"required"`
	Num     int    `form:"num,default=10"`
}

// PairsQuery binds GET /insights/tags/:tag/pairs.
type PairsQuery struct {
	With string `form:"with" binding:"required"`
}

// LimitQuery binds the num parameter of the top-N endpoints.
type LimitQuery struct {
	Num int `form:"num,default=10"`
}

// RecipesResponse wraps recipe listings.
type RecipesResponse[T any] struct {
	Count   int `json:"count"`
	Recipes []T `json:"recipes"`
}

// CategoriesResponse wraps category rankings.
type CategoriesResponse[T any] struct {
	Categories []T `json:"categories"`
}

// PairsResponse lists (x, y) observations of two tags.
type PairsResponse struct {
	X      string        `json:"x"`
	Y      string        `json:"y"`
	Points []model.Point `json:"points"`
}

// DistinctResponse reports the number of distinct values of a tag.
type DistinctResponse struct {
	Tag      string `json:"tag"`
	Distinct int    `json:"distinct"`
}

// TimelineResponse lists recipe counts per year.
type TimelineResponse struct {
	Years []model.YearCount `json:"years"`
}
