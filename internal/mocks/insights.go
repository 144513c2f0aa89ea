package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// MockInsightsService is a mock implementation of the insights service
type MockInsightsService struct {
	mock.Mock
}

func (m *MockInsightsService) MealsWithMacros(ctx context.Context, thresholds model.MacroThresholds, num int) ([]model.Recipe, error) {
	args := m.Called(ctx, thresholds, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockInsightsService) RecipesWithMaxIngredients(ctx context.Context, maxIngredients, num int) ([]model.RecipeIngredients, error) {
	args := m.Called(ctx, maxIngredients, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeIngredients), args.Error(1)
}

func (m *MockInsightsService) AverageTag(ctx context.Context, tag string) (*model.TagAverage, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TagAverage), args.Error(1)
}

func (m *MockInsightsService) TagPairs(ctx context.Context, x, y string) ([]model.Point, error) {
	args := m.Called(ctx, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Point), args.Error(1)
}

func (m *MockInsightsService) TopCategories(ctx context.Context, num int) ([]model.CategoryCount, error) {
	args := m.Called(ctx, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryCount), args.Error(1)
}

func (m *MockInsightsService) TopRatedCategories(ctx context.Context, num int) ([]model.CategoryRating, error) {
	args := m.Called(ctx, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryRating), args.Error(1)
}

func (m *MockInsightsService) SearchIngredient(ctx context.Context, pattern string, num int) ([]model.Recipe, error) {
	args := m.Called(ctx, pattern, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockInsightsService) Timeline(ctx context.Context) ([]model.YearCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YearCount), args.Error(1)
}

func (m *MockInsightsService) DistinctTag(ctx context.Context, tag string) (int, error) {
	args := m.Called(ctx, tag)
	return args.Int(0), args.Error(1)
}

func (m *MockInsightsService) FewestDirections(ctx context.Context, num int) ([]model.DirectionCount, error) {
	args := m.Called(ctx, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DirectionCount), args.Error(1)
}

func (m *MockInsightsService) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
