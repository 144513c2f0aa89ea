package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pageza/alchemorsel-insights/backend/internal/chart"
	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

const defaultNum = 10

func numFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "num",
		Aliases: []string{"n"},
		Value:   defaultNum,
		Usage:   "Maximum number of results",
	}
}

func tagFlag(value, usage string) *cli.StringFlag {
	return &cli.StringFlag{Name: "tag", Value: value, Usage: usage}
}

// ScatterResult summarizes a pairs query; the points themselves go to the chart.
type ScatterResult struct {
	X      string `json:"x" yaml:"x"`
	Y      string `json:"y" yaml:"y"`
	Points int    `json:"points" yaml:"points"`
	Chart  string `json:"chart,omitempty" yaml:"chart,omitempty"`
}

// DistinctResult is the number of distinct values of a field.
type DistinctResult struct {
	Tag      string `json:"tag" yaml:"tag"`
	Distinct int    `json:"distinct" yaml:"distinct"`
}

func macrosCmd() *cli.Command {
	return &cli.Command{
		Name:  "macros",
		Usage: "Meals with at least --protein grams of protein and at most the given calories, sodium and fat",
		Flags: []cli.Flag{
			&cli.FloatFlag{Name: "protein", Value: 30, Usage: "Minimum protein"},
			&cli.FloatFlag{Name: "calories", Value: 300, Usage: "Maximum calories"},
			&cli.FloatFlag{Name: "sodium", Value: 400, Usage: "Maximum sodium"},
			&cli.FloatFlag{Name: "fat", Value: 20, Usage: "Maximum fat"},
			numFlag(),
		},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			rows, err := s.insights.MealsWithMacros(ctx, thresholdsFrom(cmd), cmd.Int("num"))
			if err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}

func thresholdsFrom(cmd *cli.Command) model.MacroThresholds {
	return model.MacroThresholds{
		Protein:  cmd.Float("protein"),
		Calories: cmd.Float("calories"),
		Sodium:   cmd.Float("sodium"),
		Fat:      cmd.Float("fat"),
	}
}

func ingredientsCmd() *cli.Command {
	return &cli.Command{
		Name:  "ingredients",
		Usage: "Recipes with at most --max ingredients",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max", Value: 3, Usage: "Maximum number of ingredients"},
			numFlag(),
		},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			rows, err := s.insights.RecipesWithMaxIngredients(ctx, cmd.Int("max"), cmd.Int("num"))
			if err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}

func averageCmd() *cli.Command {
	return &cli.Command{
		Name:  "average",
		Usage: "Mean of a numeric field",
		Flags: []cli.Flag{tagFlag("rating", "Numeric field to average")},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			avg, err := s.insights.AverageTag(ctx, cmd.String("tag"))
			if err != nil {
				return err
			}
			return s.write(avg)
		}),
	}
}

func scatterCmd() *cli.Command {
	return &cli.Command{
		Name:  "scatter",
		Usage: "Plot one numeric field against another",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "x", Value: "sodium", Usage: "Field on the horizontal axis"},
			&cli.StringFlag{Name: "y", Value: "calories", Usage: "Field on the vertical axis"},
		},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			result, err := scatter(ctx, s, cmd.String("x"), cmd.String("y"))
			if err != nil {
				return err
			}
			return s.write(result)
		}),
	}
}

func scatter(ctx context.Context, s *session, x, y string) (*ScatterResult, error) {
	points, err := s.insights.TagPairs(ctx, x, y)
	if err != nil {
		return nil, err
	}
	p, err := chart.Scatter(fmt.Sprintf("%s vs %s", y, x), x, y, points)
	location, err := s.publish(ctx, fmt.Sprintf("scatter-%s-%s", x, y), p, err)
	if err != nil {
		return nil, err
	}
	return &ScatterResult{X: x, Y: y, Points: len(points), Chart: location}, nil
}

func categoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Most common categories",
		Flags: []cli.Flag{numFlag()},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			rows, err := s.insights.TopCategories(ctx, cmd.Int("num"))
			if err != nil {
				return err
			}
			p, err := chart.CategoryCounts(rows)
			if _, err := s.publish(ctx, "categories", p, err); err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}

func ratingsCmd() *cli.Command {
	return &cli.Command{
		Name:  "ratings",
		Usage: "Categories with the highest mean rating",
		Flags: []cli.Flag{numFlag()},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			rows, err := s.insights.TopRatedCategories(ctx, cmd.Int("num"))
			if err != nil {
				return err
			}
			p, err := chart.CategoryRatings(rows)
			if _, err := s.publish(ctx, "category-ratings", p, err); err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Recipes with an ingredient matching a regular expression",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pattern", Aliases: []string{"p"}, Value: "bacon", Usage: "Case-sensitive regular expression"},
			numFlag(),
		},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			rows, err := s.insights.SearchIngredient(ctx, cmd.String("pattern"), cmd.Int("num"))
			if err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}

func timelineCmd() *cli.Command {
	return &cli.Command{
		Name:  "timeline",
		Usage: "Recipes published per year",
		Action: withSession(func(ctx context.Context, _ *cli.Command, s *session) error {
			rows, err := s.insights.Timeline(ctx)
			if err != nil {
				return err
			}
			p, err := chart.Timeline(rows)
			if _, err := s.publish(ctx, "timeline", p, err); err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}

func distinctCmd() *cli.Command {
	return &cli.Command{
		Name:  "distinct",
		Usage: "Number of distinct values of a field",
		Flags: []cli.Flag{tagFlag("categories", "Field to inspect")},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			tag := cmd.String("tag")
			n, err := s.insights.DistinctTag(ctx, tag)
			if err != nil {
				return err
			}
			return s.write(DistinctResult{Tag: tag, Distinct: n})
		}),
	}
}

func directionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "directions",
		Usage: "Recipes with the fewest steps",
		Flags: []cli.Flag{numFlag()},
		Action: withSession(func(ctx context.Context, cmd *cli.Command, s *session) error {
			rows, err := s.insights.FewestDirections(ctx, cmd.Int("num"))
			if err != nil {
				return err
			}
			return s.write(rows)
		}),
	}
}
