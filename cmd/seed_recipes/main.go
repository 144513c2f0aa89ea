package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/config"
	"github.com/pageza/alchemorsel-insights/backend/internal/database"
	"github.com/pageza/alchemorsel-insights/backend/internal/repository"
	"github.com/pageza/alchemorsel-insights/backend/pkg/logger"
)

func main() {
	file := flag.String("file", "", "JSON dataset to load (defaults to DATA_FILE)")
	batchSize := flag.Int("batch", database.DefaultBatchSize, "Documents per insert")
	drop := flag.Bool("drop", false, "Drop the collection before loading")
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

	path := *file
	if path == "" {
		path = cfg.DataFile
	}
	if path == "" {
		zapLogger.Fatal("No dataset given: pass -file or set DATA_FILE")
	}

	f, err := os.Open(path)
	if err != nil {
		zapLogger.Fatal("Failed to open dataset", zap.String("path", path), zap.Error(err))
	}
	docs, err := repository.LoadJSON(f)
	_ = f.Close()
	if err != nil {
		zapLogger.Fatal("Failed to parse dataset", zap.String("path", path), zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close(ctx) }()

	if *drop {
		if err := db.DropRecipes(ctx); err != nil {
			zapLogger.Fatal("Failed to reset collection", zap.Error(err))
		}
	}

	inserted, err := db.InsertRecipes(ctx, docs, *batchSize, zapLogger)
	if err != nil {
		zapLogger.Fatal("Seeding stopped", zap.Int("inserted", inserted), zap.Error(err))
	}
	zapLogger.Info("Seeded recipes",
		zap.String("path", path),
		zap.Int("inserted", inserted),
		zap.String("collection", cfg.MongoDatabase+"."+cfg.MongoCollection))
}
