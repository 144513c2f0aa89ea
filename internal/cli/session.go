package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"github.com/pageza/alchemorsel-insights/backend/config"
	"github.com/pageza/alchemorsel-insights/backend/internal/cache"
	"github.com/pageza/alchemorsel-insights/backend/internal/chart"
	"github.com/pageza/alchemorsel-insights/backend/internal/database"
	"github.com/pageza/alchemorsel-insights/backend/internal/output"
	"github.com/pageza/alchemorsel-insights/backend/internal/repository"
	"github.com/pageza/alchemorsel-insights/backend/internal/service"
	"github.com/pageza/alchemorsel-insights/backend/pkg/logger"
)

const (
	chartPrefix = "charts"
	chartExpiry = 24 * time.Hour
)

// session holds what a single command invocation needs.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	insights  service.IInsightsService
	publisher chart.Publisher
	format    output.Format
	output    string
	closers   []func(context.Context) error
}

// openSession resolves the global flags, connects to the configured source and
// builds the insights service.
func openSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console"})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	s := &session{cfg: cfg, logger: log, format: format, output: cmd.String("output")}

	repo, err := s.openRepository(ctx, cmd.String("source"), cmd.String("data"))
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMinCategoryOccurrences(cfg.MinCategoryOccurrences),
	}
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, results will not be cached", zap.Error(err))
		} else {
			s.closers = append(s.closers, func(context.Context) error { return client.Close() })
			opts = append(opts, service.WithCache(cache.NewRedisCache(client, cfg.CacheTTL)))
		}
	}
	s.insights = service.NewInsightsService(repo, opts...)

	if !cmd.Bool("no-charts") {
		if s.publisher, err = s.openPublisher(ctx, cmd.String("chart-dir")); err != nil {
			s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

func (s *session) openRepository(ctx context.Context, source, data string) (service.RecipeRepository, error) {
	switch source {
	case SourceFile:
		if data == "" {
			data = s.cfg.DataFile
		}
		if data == "" {
			return nil, errors.New("--data (or DATA_FILE) is required when --source is file")
		}
		repo, err := repository.LoadFile(data)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("loaded dataset", zap.String("path", data), zap.Int("recipes", repo.Len()))
		return repo, nil
	case SourceMongo:
		db, err := database.New(ctx, s.cfg, s.logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		return repository.NewMongoRepository(db.Collection()), nil
	default:
		return nil, fmt.Errorf("unsupported source %q (want %s or %s)", source, SourceMongo, SourceFile)
	}
}

func (s *session) openPublisher(ctx context.Context, dir string) (chart.Publisher, error) {
	if s.cfg.S3BucketName != "" {
		storage, err := config.NewS3Config(ctx, s.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3: %w", err)
		}
		return chart.NewS3Publisher(storage, chartPrefix, chartExpiry), nil
	}
	if dir == "" {
		dir = s.cfg.ChartDir
	}
	return chart.FilePublisher{Dir: dir}, nil
}

// Close releases store connections in reverse order of acquisition.
func (s *session) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			s.logger.Warn("failed to release resource", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// write serializes v to the configured destination.
func (s *session) write(v any) error {
	w, err := output.NewFileWriter(s.format, s.output)
	if err != nil {
		return err
	}
	if err := w.Serialize(v); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write results: %w", err)
	}
	return w.Close()
}

// publish renders and stores a chart. It returns an empty location when
// charts are disabled or there was nothing to draw.
func (s *session) publish(ctx context.Context, name string, p *plot.Plot, err error) (string, error) {
	if s.publisher == nil {
		return "", nil
	}
	if errors.Is(err, chart.ErrNoData) {
		s.logger.Info("no data to chart", zap.String("chart", name))
		return "", nil
	}
	if err != nil {
		return "", err
	}

	png, err := chart.PNG(p)
	if err != nil {
		return "", err
	}
	location, err := s.publisher.Publish(ctx, name, png)
	if err != nil {
		return "", err
	}
	s.logger.Info("chart published", zap.String("chart", name), zap.String("location", location))
	return location, nil
}

// withSession wraps a command action so it runs against an open session.
func withSession(action func(context.Context, *cli.Command, *session) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer s.Close(context.Background())
		return action(ctx, cmd, s)
	}
}
