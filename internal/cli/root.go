// Package cli implements the insights command line tool.
//
// Every question the service answers has its own command; report answers all
// of them in one run. Results go to stdout (or --output) as a table, JSON or
// YAML, and chart-producing commands also publish a PNG to --chart-dir or,
// when S3_BUCKET_NAME is set, to S3.
//
// # Usage Examples
//
// Ten low-sodium, high-protein meals from a local dataset:
//
//	insights --source file --data recipes.json macros --sodium 200
//
// Category ranking as JSON from MongoDB:
//
//	insights --format json categories --num 5
//
// Everything at once:
//
//	insights report --output report.yaml --format yaml
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const name = "insights"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
)

// Source names accepted by --source.
const (
	SourceMongo = "mongo"
	SourceFile  = "file"
)

// Command returns the root command with every question registered.
func Command() *cli.Command {
	return &cli.Command{
		Name:    name,
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Usage:   "Answer analytical questions about a recipe collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Value: SourceMongo,
				Usage: "Where recipes come from (mongo, file)",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "JSON dataset read when --source is file (defaults to DATA_FILE)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   "table",
				Usage:   "Output format (table, json, yaml)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "chart-dir",
				Usage: "Directory for rendered charts (defaults to CHART_DIR)",
			},
			&cli.BoolFlag{
				Name:  "no-charts",
				Usage: "Skip chart rendering",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			macrosCmd(),
			ingredientsCmd(),
			averageCmd(),
			scatterCmd(),
			categoriesCmd(),
			ratingsCmd(),
			searchCmd(),
			timelineCmd(),
			distinctCmd(),
			directionsCmd(),
			reportCmd(),
		},
	}
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := Command().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
