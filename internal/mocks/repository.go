package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// MockRecipeRepository is a mock implementation of service.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Source() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRecipeRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecipeRepository) FindByMacros(ctx context.Context, thresholds model.MacroThresholds, limit int) ([]model.Recipe, error) {
	args := m.Called(ctx, thresholds, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindByIngredientCount(ctx context.Context, maxIngredients, limit int) ([]model.RecipeIngredients, error) {
	args := m.Called(ctx, maxIngredients, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeIngredients), args.Error(1)
}

func (m *MockRecipeRepository) AverageTag(ctx context.Context, tag string) (*model.TagAverage, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TagAverage), args.Error(1)
}

func (m *MockRecipeRepository) TagPairs(ctx context.Context, x, y string) ([]model.Point, error) {
	args := m.Called(ctx, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Point), args.Error(1)
}

func (m *MockRecipeRepository) CountCategories(ctx context.Context, limit int) ([]model.CategoryCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryCount), args.Error(1)
}

func (m *MockRecipeRepository) RateCategories(ctx context.Context, minOccurrences, limit int) ([]model.CategoryRating, error) {
	args := m.Called(ctx, minOccurrences, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryRating), args.Error(1)
}

func (m *MockRecipeRepository) SearchIngredient(ctx context.Context, pattern string, limit int) ([]model.Recipe, error) {
	args := m.Called(ctx, pattern, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByYear(ctx context.Context) ([]model.YearCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YearCount), args.Error(1)
}

func (m *MockRecipeRepository) DistinctCount(ctx context.Context, tag string) (int, error) {
	args := m.Called(ctx, tag)
	return args.Int(0), args.Error(1)
}

func (m *MockRecipeRepository) FewestDirections(ctx context.Context, limit int) ([]model.DirectionCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DirectionCount), args.Error(1)
}
