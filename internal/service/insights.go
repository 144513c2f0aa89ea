package service

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/internal/cache"
	"github.com/pageza/alchemorsel-insights/backend/internal/metrics"
	"github.com/pageza/alchemorsel-insights/backend/internal/model"
	apperrors "github.com/pageza/alchemorsel-insights/backend/pkg/errors"
)

// DefaultMinCategoryOccurrences is the number of recipes a category needs
// before its mean rating is ranked.
const DefaultMinCategoryOccurrences = 10

// Operation names used for metrics, logs and cache keys.
const (
	OpMacros          = "macros"
	OpIngredientCount = "ingredient_count"
	OpAverage         = "average"
	OpPairs           = "pairs"
	OpCategories      = "categories"
	OpRatings         = "category_ratings"
	OpSearch          = "search"
	OpTimeline        = "timeline"
	OpDistinct        = "distinct"
	OpDirections      = "fewest_directions"
)

// InsightsService answers the recipe questions on top of a RecipeRepository.
type InsightsService struct {
	repo                   RecipeRepository
	cache                  cache.Cache
	metrics                *metrics.Collector
	logger                 *zap.Logger
	minCategoryOccurrences int
	// scope keeps cache entries of different stores apart
	scope string
}

// fingerprinter is implemented by stores whose Source does not identify
// their content on its own.
type fingerprinter interface {
	Fingerprint() string
}

// Option configures an InsightsService.
type Option func(*InsightsService)

func WithCache(c cache.Cache) Option {
	return func(s *InsightsService) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *InsightsService) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *InsightsService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMinCategoryOccurrences overrides DefaultMinCategoryOccurrences;
// values below one are ignored.
func WithMinCategoryOccurrences(n int) Option {
	return func(s *InsightsService) {
		if n >= 1 {
			s.minCategoryOccurrences = n
		}
	}
}

// NewInsightsService creates a new InsightsService instance
func NewInsightsService(repo RecipeRepository, opts ...Option) *InsightsService {
	s := &InsightsService{
		repo:                   repo,
		cache:                  cache.NoopCache{},
		logger:                 zap.NewNop(),
		minCategoryOccurrences: DefaultMinCategoryOccurrences,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scope = repo.Source()
	if f, ok := repo.(fingerprinter); ok {
		s.scope += "@" + f.Fingerprint()
	}
	return s
}

// key builds a cache key for op scoped to the backing store.
func (s *InsightsService) key(op string, params ...any) string {
	return cache.Key(op, append([]any{s.scope}, params...)...)
}

// Source names the store the service reads from.
func (s *InsightsService) Source() string {
	return s.repo.Source()
}

// MealsWithMacros returns up to num recipes with at least thresholds.Protein
// protein and at most the calorie, sodium and fat ceilings.
func (s *InsightsService) MealsWithMacros(ctx context.Context, thresholds model.MacroThresholds, num int) ([]model.Recipe, error) {
	if num <= 0 {
		return []model.Recipe{}, nil
	}
	key := s.key(OpMacros, thresholds.Protein, thresholds.Calories, thresholds.Sodium, thresholds.Fat, num)
	return run(ctx, s, OpMacros, key, func(ctx context.Context) ([]model.Recipe, error) {
		return s.repo.FindByMacros(ctx, thresholds, num)
	})
}

// RecipesWithMaxIngredients returns up to num recipes with at most
// maxIngredients ingredients.
func (s *InsightsService) RecipesWithMaxIngredients(ctx context.Context, maxIngredients, num int) ([]model.RecipeIngredients, error) {
	if num <= 0 {
		return []model.RecipeIngredients{}, nil
	}
	key := s.key(OpIngredientCount, maxIngredients, num)
	return run(ctx, s, OpIngredientCount, key, func(ctx context.Context) ([]model.RecipeIngredients, error) {
		return s.repo.FindByIngredientCount(ctx, maxIngredients, num)
	})
}

// AverageTag returns the mean of a numeric tag.
func (s *InsightsService) AverageTag(ctx context.Context, tag string) (*model.TagAverage, error) {
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	return run(ctx, s, OpAverage, s.key(OpAverage, tag), func(ctx context.Context) (*model.TagAverage, error) {
		return s.repo.AverageTag(ctx, tag)
	})
}

// TagPairs returns every (x, y) pair of numeric values. The result is
// unbounded and is never cached.
func (s *InsightsService) TagPairs(ctx context.Context, x, y string) ([]model.Point, error) {
	if err := validateTag(x); err != nil {
		return nil, err
	}
	if err := validateTag(y); err != nil {
		return nil, err
	}
	return run(ctx, s, OpPairs, "", func(ctx context.Context) ([]model.Point, error) {
		return s.repo.TagPairs(ctx, x, y)
	})
}

// TopCategories returns the num most common categories.
func (s *InsightsService) TopCategories(ctx context.Context, num int) ([]model.CategoryCount, error) {
	if num <= 0 {
		return []model.CategoryCount{}, nil
	}
	return run(ctx, s, OpCategories, s.key(OpCategories, num), func(ctx context.Context) ([]model.CategoryCount, error) {
		return s.repo.CountCategories(ctx, num)
	})
}

// TopRatedCategories returns the num categories with the highest mean
// rating among those filed on enough recipes.
func (s *InsightsService) TopRatedCategories(ctx context.Context, num int) ([]model.CategoryRating, error) {
	if num <= 0 {
		return []model.CategoryRating{}, nil
	}
	key := s.key(OpRatings, s.minCategoryOccurrences, num)
	return run(ctx, s, OpRatings, key, func(ctx context.Context) ([]model.CategoryRating, error) {
		return s.repo.RateCategories(ctx, s.minCategoryOccurrences, num)
	})
}

// SearchIngredient returns up to num recipes with an ingredient matching
// pattern.
func (s *InsightsService) SearchIngredient(ctx context.Context, pattern string, num int) ([]model.Recipe, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid ingredient pattern %q", pattern)).
			WithMetadata("pattern", pattern).
			WithCause(err)
	}
	if num <= 0 {
		return []model.Recipe{}, nil
	}
	return run(ctx, s, OpSearch, s.key(OpSearch, num, pattern), func(ctx context.Context) ([]model.Recipe, error) {
		return s.repo.SearchIngredient(ctx, pattern, num)
	})
}

// Timeline counts recipes per publication year.
func (s *InsightsService) Timeline(ctx context.Context) ([]model.YearCount, error) {
	return run(ctx, s, OpTimeline, s.key(OpTimeline), s.repo.CountByYear)
}

// DistinctTag counts the distinct non-null values of tag.
func (s *InsightsService) DistinctTag(ctx context.Context, tag string) (int, error) {
	if err := validateTag(tag); err != nil {
		return 0, err
	}
	return run(ctx, s, OpDistinct, s.key(OpDistinct, tag), func(ctx context.Context) (int, error) {
		return s.repo.DistinctCount(ctx, tag)
	})
}

// FewestDirections returns the num recipes with the fewest direction steps.
func (s *InsightsService) FewestDirections(ctx context.Context, num int) ([]model.DirectionCount, error) {
	if num <= 0 {
		return []model.DirectionCount{}, nil
	}
	return run(ctx, s, OpDirections, s.key(OpDirections, num), func(ctx context.Context) ([]model.DirectionCount, error) {
		return s.repo.FewestDirections(ctx, num)
	})
}

// Health checks the backing store.
func (s *InsightsService) Health(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return apperrors.NewServiceUnavailableError(s.repo.Source(), err)
	}
	return nil
}

// validateTag rejects names that cannot address a document field.
func validateTag(tag string) error {
	switch {
	case strings.TrimSpace(tag) == "":
		return apperrors.NewValidationError("tag must not be empty")
	case strings.HasPrefix(tag, "$"):
		return apperrors.NewValidationError(fmt.Sprintf("tag %q must not start with '$'", tag))
	case strings.ContainsRune(tag, 0):
		return apperrors.NewValidationError("tag must not contain NUL")
	case strings.Contains(tag, "."):
		return apperrors.NewValidationError(fmt.Sprintf("tag %q must name a top-level field", tag))
	}
	return nil
}

// run executes query with caching, metrics and logging. An empty key
// bypasses the cache. Cache failures are logged and never fail the query.
func run[T any](ctx context.Context, s *InsightsService, op, key string, query func(context.Context) (T, error)) (T, error) {
	start := time.Now()

	if key != "" {
		var cached T
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("cache read failed", zap.String("operation", op), zap.Error(err))
		} else if found {
			s.metrics.CacheHit(op)
			s.logger.Debug("query served from cache", zap.String("operation", op))
			return cached, nil
		}
	}

	result, err := query(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveQuery(op, elapsed)
	if err != nil {
		s.metrics.QueryFailed(op)
		s.logger.Error("query failed",
			zap.String("operation", op),
			zap.String("source", s.repo.Source()),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		var zero T
		return zero, apperrors.NewDatabaseError("query "+op, err)
	}

	s.logger.Debug("query completed",
		zap.String("operation", op),
		zap.Duration("duration", elapsed),
		zap.Int("rows", rowCount(result)))

	if key != "" {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.Warn("cache write failed", zap.String("operation", op), zap.Error(err))
		}
	}
	return result, nil
}

func rowCount(v any) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return rv.Len()
	}
	return 1
}
