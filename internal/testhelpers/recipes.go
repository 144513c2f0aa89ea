package testhelpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

var (
	pantry = []string{
		"1 cup all-purpose flour", "2 large eggs", "4 slices thick-cut bacon",
		"1 tablespoon olive oil", "1/2 teaspoon kosher salt", "3 garlic cloves",
		"1 cup whole milk", "2 tablespoons unsalted butter", "1 pound chicken thighs",
		"1 can chickpeas", "1 lemon", "1/4 cup honey", "6 ounces baby spinach",
	}

	categories = []string{
		"Dessert", "Soup", "Vegetarian", "Quick & Easy", "Bake", "Dinner",
		"Pork", "Summer", "Bon Appétit", "Gourmet", "Kid-Friendly",
	}

	// multiples of 1/8 keep sums exact in float64
	ratings = []float64{0, 1.25, 2.5, 3.125, 3.75, 4.375, 5}
)

// FakeRecipes builds n recipe documents shaped like the Epicurious dataset.
// Roughly one field in ten is absent and one in ten is null.
func FakeRecipes(seed int64, n int) []model.Document {
	f := gofakeit.New(seed)
	docs := make([]model.Document, 0, n)

	for i := 0; i < n; i++ {
		doc := model.Document{}
		maybe := func(key string, value func() any) {
			switch f.IntRange(0, 9) {
			case 0:
			case 1:
				doc[key] = nil
			default:
				doc[key] = value()
			}
		}

		doc["title"] = fmt.Sprintf("%s %d", f.Sentence(3), i)
		maybe("desc", func() any { return f.Sentence(10) })
		maybe("protein", func() any { return float64(f.IntRange(0, 80)) })
		maybe("calories", func() any { return float64(f.IntRange(40, 1400)) })
		maybe("sodium", func() any { return float64(f.IntRange(0, 2400)) })
		maybe("fat", func() any { return float64(f.IntRange(0, 90)) })
		maybe("rating", func() any { return ratings[f.IntRange(0, len(ratings)-1)] })
		maybe("ingredients", func() any { return pick(f, pantry, f.IntRange(0, 8)) })
		maybe("directions", func() any {
			steps := make([]any, f.IntRange(0, 7))
			for s := range steps {
				steps[s] = f.Sentence(8)
			}
			return steps
		})
		maybe("categories", func() any { return pick(f, categories, f.IntRange(0, 5)) })
		maybe("date", func() any {
			return fmt.Sprintf("%04d-%02d-%02dT04:00:00.000Z", f.IntRange(1996, 2016), f.IntRange(1, 12), f.IntRange(1, 28))
		})

		docs = append(docs, doc)
	}
	return docs
}

// pick returns n distinct entries of from in random order.
func pick(f *gofakeit.Faker, from []string, n int) []any {
	if n > len(from) {
		n = len(from)
	}
	idx := make([]int, len(from))
	for i := range idx {
		idx[i] = i
	}
	f.ShuffleInts(idx)
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = from[idx[i]]
	}
	return out
}

// WriteDataset writes docs as a JSON array and returns the file path.
func WriteDataset(t *testing.T, docs []model.Document) string {
	t.Helper()
	raw, err := json.Marshal(docs)
	if err != nil {
		t.Fatalf("failed to marshal dataset: %v", err)
	}
	path := filepath.Join(t.TempDir(), "recipes.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}
