package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

type mongoPipeline = mongo.Pipeline

// MongoRepository answers recipe questions with find queries and aggregation
// pipelines against a single collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a repository over the given collection
func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

// Source names the backing store.
func (r *MongoRepository) Source() string {
	return "mongodb:" + r.collection.Database().Name() + "." + r.collection.Name()
}

// Ping verifies the store is reachable.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

func (r *MongoRepository) FindByMacros(ctx context.Context, t model.MacroThresholds, limit int) ([]model.Recipe, error) {
	if limit <= 0 {
		return []model.Recipe{}, nil
	}
	opts := options.Find().SetProjection(recipeProjection).SetLimit(int64(limit))
	return find[model.Recipe](ctx, r.collection, macroFilter(t), opts)
}

func (r *MongoRepository) FindByIngredientCount(ctx context.Context, maxIngredients, limit int) ([]model.RecipeIngredients, error) {
	if limit <= 0 {
		return []model.RecipeIngredients{}, nil
	}
	return aggregate[model.RecipeIngredients](ctx, r.collection, ingredientCountPipeline(maxIngredients, limit))
}

func (r *MongoRepository) AverageTag(ctx context.Context, tag string) (*model.TagAverage, error) {
	rows, err := aggregate[model.TagAverage](ctx, r.collection, averagePipeline(tag))
	if err != nil {
		return nil, err
	}
	avg := &model.TagAverage{}
	if len(rows) > 0 {
		avg = &rows[0]
	}
	avg.Tag = tag
	return avg, nil
}

func (r *MongoRepository) TagPairs(ctx context.Context, x, y string) ([]model.Point, error) {
	opts := options.Find().SetProjection(pairsProjection(x, y))
	docs, err := find[bson.M](ctx, r.collection, pairsFilter(x, y), opts)
	if err != nil {
		return nil, err
	}
	points := make([]model.Point, 0, len(docs))
	for _, raw := range docs {
		doc := model.Document(raw)
		xv, okX := doc.Float(x)
		yv, okY := doc.Float(y)
		if okX && okY {
			points = append(points, model.Point{X: xv, Y: yv})
		}
	}
	return points, nil
}

func (r *MongoRepository) CountCategories(ctx context.Context, limit int) ([]model.CategoryCount, error) {
	if limit <= 0 {
		return []model.CategoryCount{}, nil
	}
	return aggregate[model.CategoryCount](ctx, r.collection, categoryCountPipeline(limit))
}

func (r *MongoRepository) RateCategories(ctx context.Context, minOccurrences, limit int) ([]model.CategoryRating, error) {
	if limit <= 0 {
		return []model.CategoryRating{}, nil
	}
	return aggregate[model.CategoryRating](ctx, r.collection, categoryRatingPipeline(minOccurrences, limit))
}

func (r *MongoRepository) SearchIngredient(ctx context.Context, pattern string, limit int) ([]model.Recipe, error) {
	if limit <= 0 {
		return []model.Recipe{}, nil
	}
	opts := options.Find().SetProjection(searchProjection).SetLimit(int64(limit))
	return find[model.Recipe](ctx, r.collection, ingredientFilter(pattern), opts)
}

func (r *MongoRepository) CountByYear(ctx context.Context) ([]model.YearCount, error) {
	return aggregate[model.YearCount](ctx, r.collection, timelinePipeline())
}

func (r *MongoRepository) DistinctCount(ctx context.Context, tag string) (int, error) {
	values, err := r.collection.Distinct(ctx, tag, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("distinct %s: %w", tag, err)
	}
	count := 0
	for _, v := range values {
		if v != nil {
			count++
		}
	}
	return count, nil
}

func (r *MongoRepository) FewestDirections(ctx context.Context, limit int) ([]model.DirectionCount, error) {
	if limit <= 0 {
		return []model.DirectionCount{}, nil
	}
	return aggregate[model.DirectionCount](ctx, r.collection, fewestDirectionsPipeline(limit))
}

func find[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return results, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongoPipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return results, nil
}
