package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/config"
)

// DB represents the document store connection
type DB struct {
	client     *mongo.Client
	database   string
	collection string
}

// New connects to MongoDB and verifies the connection
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.MongoTimeout).
		SetServerSelectionTimeout(cfg.MongoTimeout).
		SetAppName("alchemorsel-insights")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error opening mongodb connection: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error connecting to mongodb: %w", err)
	}

	logger.Info("connected to mongodb",
		zap.String("database", cfg.MongoDatabase),
		zap.String("collection", cfg.MongoCollection))
	return &DB{client: client, database: cfg.MongoDatabase, collection: cfg.MongoCollection}, nil
}

// Collection returns the recipe collection
func (db *DB) Collection() *mongo.Collection {
	return db.client.Database(db.database).Collection(db.collection)
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
