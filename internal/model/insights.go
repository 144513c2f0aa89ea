package model

// TagAverage is the mean of a numeric tag. Average is nil when no recipe
// carries a numeric value for the tag.
type TagAverage struct {
	Tag     string   `bson:"-" json:"tag" yaml:"tag"`
	Average *float64 `bson:"avg_val" json:"average" yaml:"average"`
	Samples int64    `bson:"samples" json:"samples" yaml:"samples"`
}

// Point is one (x, y) observation of two numeric tags.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// CategoryCount is the number of recipes filed under a category.
type CategoryCount struct {
	Category string `bson:"_id" json:"category" yaml:"category"`
	Count    int64  `bson:"count" json:"count" yaml:"count"`
}

// CategoryRating is the mean rating of a category.
type CategoryRating struct {
	Category  string  `bson:"_id" json:"category" yaml:"category"`
	AvgRating float64 `bson:"avg_rating" json:"avg_rating" yaml:"avg_rating"`
	Count     int64   `bson:"count" json:"count" yaml:"count"`
}

// YearCount is the number of recipes published in a year.
type YearCount struct {
	Year  string `bson:"_id" json:"year" yaml:"year"`
	Count int64  `bson:"count" json:"count" yaml:"count"`
}
