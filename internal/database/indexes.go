package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexNotFound is the server error code for dropping a missing index.
const indexNotFound = 27

// recipeIndexes back the filters and group keys of the insight queries.
var recipeIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "protein", Value: 1},
			{Key: "calories", Value: 1},
			{Key: "sodium", Value: 1},
			{Key: "fat", Value: 1},
		},
		Options: options.Index().SetName("macros_idx"),
	},
	{
		Keys:    bson.D{{Key: "categories", Value: 1}},
		Options: options.Index().SetName("categories_idx"),
	},
	{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("date_idx"),
	},
}

// IndexNames lists the indexes managed by EnsureIndexes.
func IndexNames() []string {
	names := make([]string, 0, len(recipeIndexes))
	for _, idx := range recipeIndexes {
		names = append(names, *idx.Options.Name)
	}
	return names
}

// EnsureIndexes creates the recipe indexes. Existing indexes are left alone.
func (db *DB) EnsureIndexes(ctx context.Context) ([]string, error) {
	names, err := db.Collection().Indexes().CreateMany(ctx, recipeIndexes)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return names, nil
}

// DropIndexes removes the indexes created by EnsureIndexes.
func (db *DB) DropIndexes(ctx context.Context) error {
	for _, name := range IndexNames() {
		if _, err := db.Collection().Indexes().DropOne(ctx, name); err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.Code == indexNotFound {
				continue
			}
			return fmt.Errorf("failed to drop index %s: %w", name, err)
		}
	}
	return nil
}
