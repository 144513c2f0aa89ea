package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
	"github.com/pageza/alchemorsel-insights/backend/internal/testhelpers"
)

func titles[T any](rows []T, title func(T) string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, title(r))
	}
	return out
}

func recipeTitle(r model.Recipe) string { return r.Title }

// TestMongoMatchesMemory runs every question against a seeded MongoDB and the
// in-memory evaluator over the same documents.
func TestMongoMatchesMemory(t *testing.T) {
	uri := testhelpers.StartMongo(t)
	docs := testhelpers.FakeRecipes(42, 300)
	coll := testhelpers.SeedCollection(t, uri, docs)

	mongoRepo := NewMongoRepository(coll)
	memRepo := NewMemoryRepository(docs)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, mongoRepo.Ping(ctx))
	assert.Equal(t, "mongodb:Cooking.Recipes", mongoRepo.Source())

	t.Run("macros", func(t *testing.T) {
		limits := model.MacroThresholds{Protein: 30, Calories: 900, Sodium: 1800, Fat: 60}
		got, err := mongoRepo.FindByMacros(ctx, limits, 10)
		require.NoError(t, err)
		want, err := memRepo.FindByMacros(ctx, limits, 10)
		require.NoError(t, err)
		assert.Equal(t, titles(want, recipeTitle), titles(got, recipeTitle))
		for _, r := range got {
			assert.True(t, limits.Satisfies(r))
		}
	})

	t.Run("ingredient count", func(t *testing.T) {
		got, err := mongoRepo.FindByIngredientCount(ctx, 3, 10)
		require.NoError(t, err)
		want, err := memRepo.FindByIngredientCount(ctx, 3, 10)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Title, got[i].Title)
			assert.Equal(t, want[i].NumIngredients, got[i].NumIngredients)
		}
	})

	t.Run("average", func(t *testing.T) {
		for _, tag := range []string{"rating", "sodium", "missing"} {
			got, err := mongoRepo.AverageTag(ctx, tag)
			require.NoError(t, err)
			want, err := memRepo.AverageTag(ctx, tag)
			require.NoError(t, err)
			assert.Equal(t, want.Samples, got.Samples, tag)
			if want.Average == nil {
				assert.Nil(t, got.Average, tag)
				continue
			}
			require.NotNil(t, got.Average, tag)
			assert.InDelta(t, *want.Average, *got.Average, 1e-9, tag)
		}
	})

	t.Run("pairs", func(t *testing.T) {
		got, err := mongoRepo.TagPairs(ctx, "sodium", "calories")
		require.NoError(t, err)
		want, err := memRepo.TagPairs(ctx, "sodium", "calories")
		require.NoError(t, err)
		assert.ElementsMatch(t, want, got)
	})

	t.Run("categories", func(t *testing.T) {
		got, err := mongoRepo.CountCategories(ctx, 10)
		require.NoError(t, err)
		want, err := memRepo.CountCategories(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("category ratings", func(t *testing.T) {
		got, err := mongoRepo.RateCategories(ctx, 10, 10)
		require.NoError(t, err)
		want, err := memRepo.RateCategories(ctx, 10, 10)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Category, got[i].Category)
			assert.Equal(t, want[i].Count, got[i].Count)
			assert.InDelta(t, want[i].AvgRating, got[i].AvgRating, 1e-9)
		}
	})

	t.Run("search", func(t *testing.T) {
		got, err := mongoRepo.SearchIngredient(ctx, "bacon", 10)
		require.NoError(t, err)
		want, err := memRepo.SearchIngredient(ctx, "bacon", 10)
		require.NoError(t, err)
		assert.Equal(t, titles(want, recipeTitle), titles(got, recipeTitle))
	})

	t.Run("timeline", func(t *testing.T) {
		got, err := mongoRepo.CountByYear(ctx)
		require.NoError(t, err)
		want, err := memRepo.CountByYear(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("distinct", func(t *testing.T) {
		for _, tag := range []string{"categories", "rating"} {
			got, err := mongoRepo.DistinctCount(ctx, tag)
			require.NoError(t, err)
			want, err := memRepo.DistinctCount(ctx, tag)
			require.NoError(t, err)
			assert.Equal(t, want, got, tag)
		}
	})

	t.Run("fewest directions", func(t *testing.T) {
		got, err := mongoRepo.FewestDirections(ctx, 10)
		require.NoError(t, err)
		want, err := memRepo.FewestDirections(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("non-positive limit", func(t *testing.T) {
		got, err := mongoRepo.CountCategories(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
