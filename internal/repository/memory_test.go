package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
	"github.com/pageza/alchemorsel-insights/backend/internal/testhelpers"
)

func fakeRepo(t *testing.T) (*MemoryRepository, []model.Document) {
	t.Helper()
	docs := testhelpers.FakeRecipes(7, 400)
	return NewMemoryRepository(docs), docs
}

func TestMemoryFindByMacros(t *testing.T) {
	repo, docs := fakeRepo(t)
	ctx := context.Background()
	limits := model.MacroThresholds{Protein: 30, Calories: 900, Sodium: 1800, Fat: 60}

	all, err := repo.FindByMacros(ctx, limits, len(docs))
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for _, r := range all {
		assert.True(t, limits.Satisfies(r), "recipe %q violates thresholds", r.Title)
		assert.Empty(t, r.Categories, "categories are not projected")
	}

	expected := 0
	for _, d := range docs {
		if limits.Satisfies(d.Recipe()) {
			expected++
		}
	}
	assert.Len(t, all, expected)

	first, err := repo.FindByMacros(ctx, limits, 3)
	require.NoError(t, err)
	assert.Equal(t, all[:3], first, "limit keeps insertion order")
}

func TestMemoryFindByIngredientCount(t *testing.T) {
	repo, docs := fakeRepo(t)

	rows, err := repo.FindByIngredientCount(context.Background(), 3, len(docs))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.LessOrEqual(t, r.NumIngredients, 3)
		assert.Len(t, r.Ingredients, r.NumIngredients)
	}
}

func TestMemoryAverageTag(t *testing.T) {
	repo := NewMemoryRepository([]model.Document{
		{"rating": 4.0},
		{"rating": 2.0},
		{"rating": nil},
		{"title": "no rating"},
		{"rating": "five"},
	})

	avg, err := repo.AverageTag(context.Background(), "rating")
	require.NoError(t, err)
	assert.Equal(t, "rating", avg.Tag)
	assert.Equal(t, int64(2), avg.Samples)
	require.NotNil(t, avg.Average)
	assert.Equal(t, 3.0, *avg.Average)

	none, err := repo.AverageTag(context.Background(), "protein")
	require.NoError(t, err)
	assert.Nil(t, none.Average)
	assert.Zero(t, none.Samples)
}

func TestMemoryTagPairs(t *testing.T) {
	repo := NewMemoryRepository([]model.Document{
		{"sodium": 100.0, "calories": 200.0},
		{"sodium": nil, "calories": 300.0},
		{"calories": 400.0},
		{"sodium": 50.0, "calories": 75.0},
	})

	points, err := repo.TagPairs(context.Background(), "sodium", "calories")
	require.NoError(t, err)
	assert.Equal(t, []model.Point{{X: 100, Y: 200}, {X: 50, Y: 75}}, points)
}

func TestMemoryCountCategoriesExample(t *testing.T) {
	repo := NewMemoryRepository([]model.Document{
		{"categories": []any{"Dessert"}},
		{"categories": []any{"Dessert"}},
		{"categories": []any{"Soup"}},
	})

	rows, err := repo.CountCategories(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryCount{
		{Category: "Dessert", Count: 2},
		{Category: "Soup", Count: 1},
	}, rows)
}

func TestMemoryCountCategoriesSumsMemberships(t *testing.T) {
	repo, docs := fakeRepo(t)

	rows, err := repo.CountCategories(context.Background(), 1000)
	require.NoError(t, err)

	var total, pairs int64
	for i, r := range rows {
		total += r.Count
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].Count, r.Count, "descending by count")
		}
	}
	for _, d := range docs {
		cats, _ := d.Strings("categories")
		pairs += int64(len(cats))
	}
	assert.Equal(t, pairs, total)
}

func TestMemoryRateCategories(t *testing.T) {
	var docs []model.Document
	for i := 0; i < 12; i++ {
		docs = append(docs, model.Document{"categories": []any{"Soup", "Dinner"}, "rating": 4.0})
	}
	for i := 0; i < 10; i++ {
		docs = append(docs, model.Document{"categories": []any{"Dessert"}, "rating": 5.0})
	}
	for i := 0; i < 9; i++ {
		docs = append(docs, model.Document{"categories": []any{"Rare"}, "rating": 5.0})
	}
	for i := 0; i < 11; i++ {
		docs = append(docs, model.Document{"categories": []any{"Unrated"}})
	}
	docs = append(docs, model.Document{"categories": []any{"Soup"}, "rating": nil})
	repo := NewMemoryRepository(docs)

	rows, err := repo.RateCategories(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryRating{
		{Category: "Dessert", AvgRating: 5, Count: 10},
		{Category: "Dinner", AvgRating: 4, Count: 12},
		{Category: "Soup", AvgRating: 4, Count: 13},
	}, rows)

	top, err := repo.RateCategories(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestMemoryRateCategoriesOccurrenceFloor(t *testing.T) {
	repo, _ := fakeRepo(t)

	rows, err := repo.RateCategories(context.Background(), 10, 100)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for i, r := range rows {
		assert.GreaterOrEqual(t, r.Count, int64(10))
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].AvgRating, r.AvgRating)
		}
	}
}

func TestMemorySearchIngredient(t *testing.T) {
	repo, docs := fakeRepo(t)

	rows, err := repo.SearchIngredient(context.Background(), "bacon", len(docs))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		found := false
		for _, ing := range r.Ingredients {
			found = found || strings.Contains(ing, "bacon")
		}
		assert.True(t, found, "recipe %q has no bacon", r.Title)
	}

	limited, err := repo.SearchIngredient(context.Background(), "bacon", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = repo.SearchIngredient(context.Background(), "(", 2)
	assert.Error(t, err)
}

func TestMemoryCountByYear(t *testing.T) {
	repo := NewMemoryRepository([]model.Document{
		{"date": "2006-09-01T04:00:00.000Z"},
		{"date": "2004-08-20T04:00:00.000Z"},
		{"date": "2006-01-01"},
		{"date": "06"},
		{"date": nil},
		{"title": "undated"},
	})

	rows, err := repo.CountByYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.YearCount{
		{Year: "2004", Count: 1},
		{Year: "2006", Count: 2},
	}, rows)
}

func TestMemoryDistinctCount(t *testing.T) {
	repo := NewMemoryRepository([]model.Document{
		{"categories": []any{"A"}},
		{"categories": []any{"B"}},
		{"categories": []any{"A"}},
		{"categories": nil},
		{"rating": 5.0},
	})

	n, err := repo.DistinctCount(context.Background(), "categories")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	repo = NewMemoryRepository([]model.Document{{"rating": 5.0}, {"rating": 5}, {"rating": 4.5}})
	n, err = repo.DistinctCount(context.Background(), "rating")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryFewestDirections(t *testing.T) {
	repo, _ := fakeRepo(t)

	rows, err := repo.FewestDirections(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, rows, 25)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Steps, rows[i].Steps)
	}
}

func TestMemoryNonPositiveLimits(t *testing.T) {
	repo, _ := fakeRepo(t)
	ctx := context.Background()

	for _, limit := range []int{0, -3} {
		macros, err := repo.FindByMacros(ctx, model.MacroThresholds{Calories: 1e9, Sodium: 1e9, Fat: 1e9}, limit)
		require.NoError(t, err)
		assert.Empty(t, macros)

		counts, err := repo.FindByIngredientCount(ctx, 100, limit)
		require.NoError(t, err)
		assert.Empty(t, counts)

		cats, err := repo.CountCategories(ctx, limit)
		require.NoError(t, err)
		assert.Empty(t, cats)

		rated, err := repo.RateCategories(ctx, 1, limit)
		require.NoError(t, err)
		assert.Empty(t, rated)

		found, err := repo.SearchIngredient(ctx, "bacon", limit)
		require.NoError(t, err)
		assert.Empty(t, found)

		steps, err := repo.FewestDirections(ctx, limit)
		require.NoError(t, err)
		assert.Empty(t, steps)
	}
}

func TestLoadJSON(t *testing.T) {
	array := `[{"title":"A","rating":4.375}, null, {}]`
	docs, err := LoadJSON(strings.NewReader(array))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	stream := "\n{\"title\":\"A\"}\n{\"title\":\"B\",\"fat\":3}\n"
	docs, err = LoadJSON(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	fat, ok := docs[1].Float("fat")
	assert.True(t, ok)
	assert.Equal(t, 3.0, fat)

	docs, err = LoadJSON(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = LoadJSON(strings.NewReader("[{"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := testhelpers.WriteDataset(t, testhelpers.FakeRecipes(1, 20))

	repo, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.Len())
	assert.Equal(t, "file:"+path, repo.Source())
	assert.NoError(t, repo.Ping(context.Background()))

	_, err = LoadFile(path + ".missing")
	assert.Error(t, err)
}

func TestMemoryFingerprint(t *testing.T) {
	a := NewMemoryRepository([]model.Document{{"categories": []any{"Dessert"}}, {"categories": []any{"Soup"}}})
	same := NewMemoryRepository([]model.Document{{"categories": []any{"Dessert"}}, {"categories": []any{"Soup"}}})
	other := NewMemoryRepository([]model.Document{{"categories": []any{"Pasta"}}})

	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), same.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), other.Fingerprint())
	assert.Equal(t, a.Source(), other.Source(), "the name alone cannot tell them apart")

	first := testhelpers.WriteDataset(t, testhelpers.FakeRecipes(1, 10))
	second := testhelpers.WriteDataset(t, testhelpers.FakeRecipes(2, 10))
	r1, err := LoadFile(first)
	require.NoError(t, err)
	r2, err := LoadFile(second)
	require.NoError(t, err)
	assert.NotEqual(t, r1.Fingerprint(), r2.Fingerprint())
}
