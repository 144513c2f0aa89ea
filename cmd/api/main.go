package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/config"
	"github.com/pageza/alchemorsel-insights/backend/internal/cache"
	"github.com/pageza/alchemorsel-insights/backend/internal/database"
	"github.com/pageza/alchemorsel-insights/backend/internal/metrics"
	"github.com/pageza/alchemorsel-insights/backend/internal/repository"
	"github.com/pageza/alchemorsel-insights/backend/internal/router"
	"github.com/pageza/alchemorsel-insights/backend/internal/server"
	"github.com/pageza/alchemorsel-insights/backend/internal/service"
	"github.com/pageza/alchemorsel-insights/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == config.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx := context.Background()

	// Recipe source: a JSON dataset when DATA_FILE is set, MongoDB otherwise
	var repo service.RecipeRepository
	var db *database.DB
	if cfg.DataFile != "" {
		memRepo, err := repository.LoadFile(cfg.DataFile)
		if err != nil {
			zapLogger.Fatal("Failed to load dataset", zap.String("path", cfg.DataFile), zap.Error(err))
		}
		zapLogger.Info("serving recipes from file", zap.String("path", cfg.DataFile), zap.Int("recipes", memRepo.Len()))
		repo = memRepo
	} else {
		db, err = database.New(ctx, cfg, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		repo = repository.NewMongoRepository(db.Collection())
	}

	collector := metrics.New()
	opts := []service.Option{
		service.WithLogger(zapLogger),
		service.WithMetrics(collector),
		service.WithMinCategoryOccurrences(cfg.MinCategoryOccurrences),
	}

	// Redis backs the result cache and the rate limiter; both degrade without it
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			opts = append(opts, service.WithCache(cache.NewRedisCache(redisClient, cfg.CacheTTL)))
		}
	}

	insights := service.NewInsightsService(repo, opts...)

	engine := router.SetupRouter(router.Dependencies{
		Config:   cfg,
		Logger:   zapLogger,
		Insights: insights,
		Redis:    redisClient,
		Metrics:  collector.Handler(),
	})

	// Create and start server
	srv := server.New(cfg, engine, zapLogger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			zapLogger.Error("Server error", zap.Error(err))
		}
	case sig := <-quit:
		zapLogger.Info("Received signal", zap.String("signal", sig.String()))
	}

	// Gracefully shutdown the server
	zapLogger.Info("Shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		if err := db.Close(ctx); err != nil {
			zapLogger.Error("Failed to close database", zap.Error(err))
		}
	}
	zapLogger.Info("Server stopped")
}
