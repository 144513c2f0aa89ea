package database

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/config"
	"github.com/pageza/alchemorsel-insights/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		MongoDatabase:   "Cooking",
		MongoCollection: "Recipes",
		MongoTimeout:    30 * time.Second,
	}
}

func TestDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.MongoURI = testhelpers.StartMongo(t)
	testhelpers.SeedCollection(t, cfg.MongoURI, testhelpers.FakeRecipes(3, 5))

	db, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.Equal(t, "Recipes", db.Collection().Name())

	n, err := db.Collection().EstimatedDocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestDatabaseUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.MongoURI = "mongodb://127.0.0.1:1/"
	cfg.MongoTimeout = 500 * time.Millisecond

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRedisClient(t *testing.T) {
	addr := testhelpers.StartRedis(t)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	client, err := NewRedisClient(&config.Config{RedisHost: host, RedisPort: port}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", time.Minute).Err())
	assert.Equal(t, "v", client.Get(context.Background(), "k").Val())
}

func TestRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "://nope"}, zap.NewNop())
	assert.Error(t, err)
}

func TestInsertRecipesAndIndexes(t *testing.T) {
	cfg := testConfig()
	cfg.MongoURI = testhelpers.StartMongo(t)
	ctx := context.Background()

	db, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	require.NoError(t, db.DropRecipes(ctx))
	n, err := db.InsertRecipes(ctx, testhelpers.FakeRecipes(5, 23), 10, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 23, n)

	count, err := db.Collection().CountDocuments(ctx, bson.D{})
	require.NoError(t, err)
	assert.Equal(t, int64(23), count)

	names, err := db.EnsureIndexes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, IndexNames(), names)

	specs, err := db.Collection().Indexes().ListSpecifications(ctx)
	require.NoError(t, err)
	assert.Len(t, specs, len(IndexNames())+1, "managed indexes plus _id")

	require.NoError(t, db.DropIndexes(ctx))
	require.NoError(t, db.DropIndexes(ctx), "dropping twice is a no-op")
	specs, err = db.Collection().Indexes().ListSpecifications(ctx)
	require.NoError(t, err)
	assert.Len(t, specs, 1)
}

func TestInsertRecipesEmpty(t *testing.T) {
	n, err := (&DB{}).InsertRecipes(context.Background(), nil, 0, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)
}
