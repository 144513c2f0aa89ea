package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/config"
	"github.com/pageza/alchemorsel-insights/backend/internal/database"
	"github.com/pageza/alchemorsel-insights/backend/pkg/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Drop the recipe indexes instead of creating them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx := context.Background()
	db, err := database.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close(ctx) }()

	if *rollback {
		if err := db.DropIndexes(ctx); err != nil {
			zapLogger.Fatal("Rollback failed", zap.Error(err))
		}
		zapLogger.Info("Dropped recipe indexes", zap.Strings("indexes", database.IndexNames()))
		return
	}

	names, err := db.EnsureIndexes(ctx)
	if err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}
	zapLogger.Info("Recipe indexes in place", zap.Strings("indexes", names))
}
