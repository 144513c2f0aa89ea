package service

import (
	"context"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// RecipeRepository answers the recipe questions against a backing store.
// Bounded methods return an empty result for a non-positive limit.
type RecipeRepository interface {
	Source() string
	Ping(ctx context.Context) error
	FindByMacros(ctx context.Context, thresholds model.MacroThresholds, limit int) ([]model.Recipe, error)
	FindByIngredientCount(ctx context.Context, maxIngredients, limit int) ([]model.RecipeIngredients, error)
	AverageTag(ctx context.Context, tag string) (*model.TagAverage, error)
	TagPairs(ctx context.Context, x, y string) ([]model.Point, error)
	CountCategories(ctx context.Context, limit int) ([]model.CategoryCount, error)
	RateCategories(ctx context.Context, minOccurrences, limit int) ([]model.CategoryRating, error)
	SearchIngredient(ctx context.Context, pattern string, limit int) ([]model.Recipe, error)
	CountByYear(ctx context.Context) ([]model.YearCount, error)
	DistinctCount(ctx context.Context, tag string) (int, error)
	FewestDirections(ctx context.Context, limit int) ([]model.DirectionCount, error)
}

// IInsightsService defines the interface for recipe insight queries
type IInsightsService interface {
	MealsWithMacros(ctx context.Context, thresholds model.MacroThresholds, num int) ([]model.Recipe, error)
	RecipesWithMaxIngredients(ctx context.Context, maxIngredients, num int) ([]model.RecipeIngredients, error)
	AverageTag(ctx context.Context, tag string) (*model.TagAverage, error)
	TagPairs(ctx context.Context, x, y string) ([]model.Point, error)
	TopCategories(ctx context.Context, num int) ([]model.CategoryCount, error)
	TopRatedCategories(ctx context.Context, num int) ([]model.CategoryRating, error)
	SearchIngredient(ctx context.Context, pattern string, num int) ([]model.Recipe, error)
	Timeline(ctx context.Context) ([]model.YearCount, error)
	DistinctTag(ctx context.Context, tag string) (int, error)
	FewestDirections(ctx context.Context, num int) ([]model.DirectionCount, error)
	Health(ctx context.Context) error
}
