package repository

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// MemoryRepository answers the same questions as MongoRepository over
// documents held in process. It is immutable after construction.
type MemoryRepository struct {
	docs        []model.Document
	source      string
	fingerprint string
}

// NewMemoryRepository creates a repository over docs in insertion order.
func NewMemoryRepository(docs []model.Document) *MemoryRepository {
	return &MemoryRepository{docs: docs, source: "memory", fingerprint: fingerprint(docs)}
}

// fingerprint hashes the documents; map keys encode in sorted order.
func fingerprint(docs []model.Document) string {
	hasher := sha256.New()
	if err := json.NewEncoder(hasher).Encode(docs); err != nil {
		fmt.Fprintf(hasher, "%v", docs)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil))[:16]
}

// LoadFile reads a JSON dataset file into a MemoryRepository.
func LoadFile(path string) (*MemoryRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	docs, err := LoadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	repo := NewMemoryRepository(docs)
	repo.source = "file:" + path
	return repo, nil
}

// LoadJSON decodes either a JSON array of recipe objects or a stream of
// objects, one after another, as written by mongoexport.
func LoadJSON(r io.Reader) ([]model.Document, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return []model.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var docs []model.Document
		if err := dec.Decode(&docs); err != nil {
			return nil, err
		}
		return compact(docs), nil
	}

	docs := []model.Document{}
	for {
		var doc model.Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// compact drops null array entries.
func compact(docs []model.Document) []model.Document {
	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Source names the backing store.
func (r *MemoryRepository) Source() string {
	return r.source
}

// Fingerprint identifies the content held, so two datasets loaded from the
// same path at different times are told apart.
func (r *MemoryRepository) Fingerprint() string {
	return r.fingerprint
}

// Len returns the number of documents held.
func (r *MemoryRepository) Len() int {
	return len(r.docs)
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryRepository) FindByMacros(_ context.Context, t model.MacroThresholds, limit int) ([]model.Recipe, error) {
	out := []model.Recipe{}
	for _, d := range r.docs {
		if len(out) >= limit {
			break
		}
		rec := d.Recipe()
		if t.Satisfies(rec) {
			rec.Categories = nil
			rec.Date = ""
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindByIngredientCount(_ context.Context, maxIngredients, limit int) ([]model.RecipeIngredients, error) {
	out := []model.RecipeIngredients{}
	for _, d := range r.docs {
		if len(out) >= limit {
			break
		}
		n, ok := d.Len("ingredients")
		if !ok || n > maxIngredients {
			continue
		}
		rec := d.Recipe()
		out = append(out, model.RecipeIngredients{
			Title:          rec.Title,
			NumIngredients: n,
			Ingredients:    rec.Ingredients,
			Directions:     rec.Directions,
		})
	}
	return out, nil
}

func (r *MemoryRepository) AverageTag(_ context.Context, tag string) (*model.TagAverage, error) {
	avg := &model.TagAverage{Tag: tag}
	var sum float64
	for _, d := range r.docs {
		if v, ok := d.Float(tag); ok {
			sum += v
			avg.Samples++
		}
	}
	if avg.Samples > 0 {
		mean := sum / float64(avg.Samples)
		avg.Average = &mean
	}
	return avg, nil
}

func (r *MemoryRepository) TagPairs(_ context.Context, x, y string) ([]model.Point, error) {
	points := []model.Point{}
	for _, d := range r.docs {
		xv, okX := d.Float(x)
		yv, okY := d.Float(y)
		if okX && okY {
			points = append(points, model.Point{X: xv, Y: yv})
		}
	}
	return points, nil
}

type categoryStats struct {
	count   int64
	ratings int64
	sum     float64
}

// categoryTally counts category memberships in first-seen order.
func (r *MemoryRepository) categoryTally() ([]string, map[string]*categoryStats) {
	var order []string
	stats := map[string]*categoryStats{}
	for _, d := range r.docs {
		cats, ok := d.Strings("categories")
		if !ok {
			if c, isString := d.String("categories"); isString {
				cats = []string{c}
			}
		}
		rating, rated := d.Float("rating")
		for _, c := range cats {
			s, seen := stats[c]
			if !seen {
				s = &categoryStats{}
				stats[c] = s
				order = append(order, c)
			}
			s.count++
			if rated {
				s.ratings++
				s.sum += rating
			}
		}
	}
	return order, stats
}

func (r *MemoryRepository) CountCategories(_ context.Context, limit int) ([]model.CategoryCount, error) {
	if limit <= 0 {
		return []model.CategoryCount{}, nil
	}
	order, stats := r.categoryTally()
	out := make([]model.CategoryCount, 0, len(order))
	for _, c := range order {
		out = append(out, model.CategoryCount{Category: c, Count: stats[c].count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return truncate(out, limit), nil
}

func (r *MemoryRepository) RateCategories(_ context.Context, minOccurrences, limit int) ([]model.CategoryRating, error) {
	if limit <= 0 {
		return []model.CategoryRating{}, nil
	}
	order, stats := r.categoryTally()
	out := []model.CategoryRating{}
	for _, c := range order {
		s := stats[c]
		if s.count < int64(minOccurrences) || s.ratings == 0 {
			continue
		}
		out = append(out, model.CategoryRating{
			Category:  c,
			AvgRating: s.sum / float64(s.ratings),
			Count:     s.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		return out[i].Category < out[j].Category
	})
	return truncate(out, limit), nil
}

func (r *MemoryRepository) SearchIngredient(_ context.Context, pattern string, limit int) ([]model.Recipe, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	out := []model.Recipe{}
	for _, d := range r.docs {
		if len(out) >= limit {
			break
		}
		ingredients, ok := d.Strings("ingredients")
		if !ok {
			if s, isString := d.String("ingredients"); isString {
				ingredients = []string{s}
			}
		}
		for _, ing := range ingredients {
			if re.MatchString(ing) {
				rec := d.Recipe()
				out = append(out, model.Recipe{
					Title:       rec.Title,
					Description: rec.Description,
					Directions:  rec.Directions,
					Rating:      rec.Rating,
					Ingredients: rec.Ingredients,
				})
				break
			}
		}
	}
	return out, nil
}

func (r *MemoryRepository) CountByYear(context.Context) ([]model.YearCount, error) {
	counts := map[string]int64{}
	for _, d := range r.docs {
		date, ok := d.String("date")
		if !ok || utf8.RuneCountInString(date) < 4 {
			continue
		}
		counts[firstRunes(date, 4)]++
	}
	out := make([]model.YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, model.YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (r *MemoryRepository) DistinctCount(_ context.Context, tag string) (int, error) {
	seen := map[string]struct{}{}
	for _, d := range r.docs {
		for _, v := range d.Values(tag) {
			seen[distinctKey(v)] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *MemoryRepository) FewestDirections(_ context.Context, limit int) ([]model.DirectionCount, error) {
	if limit <= 0 {
		return []model.DirectionCount{}, nil
	}
	out := []model.DirectionCount{}
	for _, d := range r.docs {
		n, ok := d.Len("directions")
		if !ok {
			continue
		}
		title, _ := d.String("title")
		out = append(out, model.DirectionCount{Title: title, Steps: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Steps != out[j].Steps {
			return out[i].Steps < out[j].Steps
		}
		return out[i].Title < out[j].Title
	})
	return truncate(out, limit), nil
}

func truncate[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// distinctKey normalizes a value for equality; numbers compare by value
// regardless of their decoded type.
func distinctKey(v any) string {
	if f, ok := (model.Document{"v": v}).Float("v"); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	switch val := v.(type) {
	case string:
		return "s:" + val
	case bool:
		return "b:" + strconv.FormatBool(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("x:%v", val)
		}
		return "j:" + string(raw)
	}
}
