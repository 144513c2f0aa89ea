package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

var (
	recipeProjection = bson.D{
		{Key: "_id", Value: 0},
		{Key: "title", Value: 1},
		{Key: "desc", Value: 1},
		{Key: "directions", Value: 1},
		{Key: "ingredients", Value: 1},
		{Key: "rating", Value: 1},
		{Key: "protein", Value: 1},
		{Key: "calories", Value: 1},
		{Key: "sodium", Value: 1},
		{Key: "fat", Value: 1},
	}

	searchProjection = bson.D{
		{Key: "_id", Value: 0},
		{Key: "title", Value: 1},
		{Key: "desc", Value: 1},
		{Key: "directions", Value: 1},
		{Key: "rating", Value: 1},
		{Key: "ingredients", Value: 1},
	}
)

// macroFilter keeps recipes with enough protein and bounded calories, sodium
// and fat. Comparison operators never match absent or null fields.
func macroFilter(t model.MacroThresholds) bson.D {
	return bson.D{
		{Key: "protein", Value: bson.D{{Key: "$gte", Value: t.Protein}}},
		{Key: "calories", Value: bson.D{{Key: "$lte", Value: t.Calories}}},
		{Key: "sodium", Value: bson.D{{Key: "$lte", Value: t.Sodium}}},
		{Key: "fat", Value: bson.D{{Key: "$lte", Value: t.Fat}}},
	}
}

// ingredientCountPipeline annotates each recipe with its ingredient count and
// keeps those with at most maxIngredients. $size fails on non-arrays, so
// recipes without an ingredient list are filtered out first.
func ingredientCountPipeline(maxIngredients, limit int) mongoPipeline {
	return mongoPipeline{
		{{Key: "$match", Value: bson.D{{Key: "ingredients", Value: bson.D{{Key: "$type", Value: "array"}}}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "title", Value: 1},
			{Key: "num_ingredients", Value: bson.D{{Key: "$size", Value: "$ingredients"}}},
			{Key: "ingredients", Value: 1},
			{Key: "directions", Value: 1},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "num_ingredients", Value: bson.D{{Key: "$lte", Value: maxIngredients}}}}}},
		{{Key: "$limit", Value: limit}},
	}
}

// averagePipeline averages a numeric tag; $avg skips non-numeric values and
// samples counts the values that took part.
func averagePipeline(tag string) mongoPipeline {
	field := "$" + tag
	return mongoPipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_val", Value: bson.D{{Key: "$avg", Value: field}}},
			{Key: "samples", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$isNumber", Value: field}}, 1, 0}},
			}}}},
		}}},
	}
}

// pairsFilter keeps recipes where both tags hold numbers.
func pairsFilter(x, y string) bson.D {
	number := bson.D{{Key: "$type", Value: "number"}}
	if x == y {
		return bson.D{{Key: x, Value: number}}
	}
	return bson.D{{Key: x, Value: number}, {Key: y, Value: number}}
}

func pairsProjection(x, y string) bson.D {
	projection := bson.D{{Key: "_id", Value: 0}, {Key: x, Value: 1}}
	if x != y {
		projection = append(projection, bson.E{Key: y, Value: 1})
	}
	return projection
}

// unwindCategories flattens the category set into one document per
// membership and drops non-string members.
func unwindCategories() mongoPipeline {
	return mongoPipeline{
		{{Key: "$unwind", Value: "$categories"}},
		{{Key: "$match", Value: bson.D{{Key: "categories", Value: bson.D{{Key: "$type", Value: "string"}}}}}},
	}
}

func categoryCountPipeline(limit int) mongoPipeline {
	return append(unwindCategories(),
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$categories"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	)
}

// categoryRatingPipeline ranks categories by mean rating. Categories with
// fewer than minOccurrences memberships are noise and are dropped, as are
// categories whose recipes carry no rating at all.
func categoryRatingPipeline(minOccurrences, limit int) mongoPipeline {
	return append(unwindCategories(),
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$categories"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$gte", Value: minOccurrences}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$ne", Value: nil}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "avg_rating", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	)
}

func ingredientFilter(pattern string) bson.D {
	return bson.D{{Key: "ingredients", Value: primitive.Regex{Pattern: pattern}}}
}

// timelinePipeline bins recipes by the first four characters of their date.
func timelinePipeline() mongoPipeline {
	return mongoPipeline{
		{{Key: "$match", Value: bson.D{{Key: "date", Value: primitive.Regex{Pattern: "^.{4}"}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$substrCP", Value: bson.A{"$date", 0, 4}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func fewestDirectionsPipeline(limit int) mongoPipeline {
	return mongoPipeline{
		{{Key: "$match", Value: bson.D{{Key: "directions", Value: bson.D{{Key: "$type", Value: "array"}}}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "title", Value: 1},
			{Key: "steps", Value: bson.D{{Key: "$size", Value: "$directions"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "steps", Value: 1}, {Key: "title", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}
