package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/internal/chart"
	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// Report answers every question with its default parameters.
type Report struct {
	Source           string                    `json:"source" yaml:"source"`
	Macros           []model.Recipe            `json:"macros" yaml:"macros"`
	FewIngredients   []model.RecipeIngredients `json:"few_ingredients" yaml:"few_ingredients"`
	AverageRating    *model.TagAverage         `json:"average_rating" yaml:"average_rating"`
	SodiumCalories   *ScatterResult            `json:"sodium_vs_calories" yaml:"sodium_vs_calories"`
	TopCategories    []model.CategoryCount     `json:"top_categories" yaml:"top_categories"`
	TopRated         []model.CategoryRating    `json:"top_rated_categories" yaml:"top_rated_categories"`
	Bacon            []model.Recipe            `json:"bacon" yaml:"bacon"`
	Timeline         []model.YearCount         `json:"timeline" yaml:"timeline"`
	Categories       DistinctResult            `json:"distinct_categories" yaml:"distinct_categories"`
	FewestDirections []model.DirectionCount    `json:"fewest_directions" yaml:"fewest_directions"`
	Charts           map[string]string         `json:"charts,omitempty" yaml:"charts,omitempty"`
}

var reportMacros = model.MacroThresholds{Protein: 30, Calories: 300, Sodium: 400, Fat: 20}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Answer every question with default parameters",
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			report, err := buildReport(ctx, s, cmd.String("source"))
			if err != nil {
				return err
			}
			return s.write(report)
		}),
	}
}

func buildReport(ctx context.Context, s *session, source string) (*Report, error) {
	r := &Report{Source: source, Charts: map[string]string{}}
	var err error

	if r.Macros, err = s.insights.MealsWithMacros(ctx, reportMacros, defaultNum); err != nil {
		return nil, err
	}
	if r.FewIngredients, err = s.insights.RecipesWithMaxIngredients(ctx, 3, defaultNum); err != nil {
		return nil, err
	}
	if r.AverageRating, err = s.insights.AverageTag(ctx, "rating"); err != nil {
		return nil, err
	}
	if r.SodiumCalories, err = scatter(ctx, s, "sodium", "calories"); err != nil {
		return nil, err
	}
	r.addChart("sodium_vs_calories", r.SodiumCalories.Chart)

	if r.TopCategories, err = s.insights.TopCategories(ctx, defaultNum); err != nil {
		return nil, err
	}
	p, err := chart.CategoryCounts(r.TopCategories)
	location, err := s.publish(ctx, "categories", p, err)
	if err != nil {
		return nil, err
	}
	r.addChart("top_categories", location)

	if r.TopRated, err = s.insights.TopRatedCategories(ctx, defaultNum); err != nil {
		return nil, err
	}
	p, err = chart.CategoryRatings(r.TopRated)
	if location, err = s.publish(ctx, "category-ratings", p, err); err != nil {
		return nil, err
	}
	r.addChart("top_rated_categories", location)

	if r.Bacon, err = s.insights.SearchIngredient(ctx, "bacon", defaultNum); err != nil {
		return nil, err
	}

	if r.Timeline, err = s.insights.Timeline(ctx); err != nil {
		return nil, err
	}
	p, err = chart.Timeline(r.Timeline)
	if location, err = s.publish(ctx, "timeline", p, err); err != nil {
		return nil, err
	}
	r.addChart("timeline", location)

	n, err := s.insights.DistinctTag(ctx, "categories")
	if err != nil {
		return nil, err
	}
	r.Categories = DistinctResult{Tag: "categories", Distinct: n}

	if r.FewestDirections, err = s.insights.FewestDirections(ctx, defaultNum); err != nil {
		return nil, err
	}

	s.logger.Debug("report complete", zap.Int("charts", len(r.Charts)))
	return r, nil
}

func (r *Report) addChart(name, location string) {
	if location != "" {
		r.Charts[name] = location
	}
}
