package model

// Recipe is a projection of a recipe document. Optional numerics are
// pointers so absent values stay distinguishable from zero.
type Recipe struct {
	Title       string   `bson:"title,omitempty" json:"title" yaml:"title"`
	Description string   `bson:"desc,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	Directions  []string `bson:"directions,omitempty" json:"directions,omitempty" yaml:"directions,omitempty"`
	Ingredients []string `bson:"ingredients,omitempty" json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Categories  []string `bson:"categories,omitempty" json:"categories,omitempty" yaml:"categories,omitempty"`
	Rating      *float64 `bson:"rating,omitempty" json:"rating,omitempty" yaml:"rating,omitempty"`
	Protein     *float64 `bson:"protein,omitempty" json:"protein,omitempty" yaml:"protein,omitempty"`
	Calories    *float64 `bson:"calories,omitempty" json:"calories,omitempty" yaml:"calories,omitempty"`
	Sodium      *float64 `bson:"sodium,omitempty" json:"sodium,omitempty" yaml:"sodium,omitempty"`
	Fat         *float64 `bson:"fat,omitempty" json:"fat,omitempty" yaml:"fat,omitempty"`
	Date        string   `bson:"date,omitempty" json:"date,omitempty" yaml:"date,omitempty"`
}

// RecipeIngredients is a recipe annotated with the length of its ingredient list.
type RecipeIngredients struct {
	Title          string   `bson:"title" json:"title" yaml:"title"`
	NumIngredients int      `bson:"num_ingredients" json:"num_ingredients" yaml:"num_ingredients"`
	Ingredients    []string `bson:"ingredients" json:"ingredients" yaml:"ingredients"`
	Directions     []string `bson:"directions,omitempty" json:"directions,omitempty" yaml:"directions,omitempty"`
}

// DirectionCount is the number of direction steps of a recipe.
type DirectionCount struct {
	Title string `bson:"title" json:"title" yaml:"title"`
	Steps int    `bson:"steps" json:"steps" yaml:"steps"`
}
