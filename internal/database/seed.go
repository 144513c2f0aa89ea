package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
)

// DefaultBatchSize is the number of documents sent per InsertMany call.
const DefaultBatchSize = 500

// InsertRecipes loads docs into the recipe collection in batches and returns
// how many were written. A non-positive batchSize uses DefaultBatchSize.
func (db *DB) InsertRecipes(ctx context.Context, docs []model.Document, batchSize int, logger *zap.Logger) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	inserted := 0
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		batch := make([]any, 0, end-start)
		for _, d := range docs[start:end] {
			batch = append(batch, map[string]any(d))
		}

		res, err := db.Collection().InsertMany(ctx, batch, options.InsertMany().SetOrdered(true))
		if res != nil {
			inserted += len(res.InsertedIDs)
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to insert recipes %d-%d: %w", start+1, end, err)
		}
		logger.Debug("inserted batch", zap.Int("from", start+1), zap.Int("to", end))
	}
	return inserted, nil
}

// DropRecipes removes the recipe collection.
func (db *DB) DropRecipes(ctx context.Context) error {
	if err := db.Collection().Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}
