package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every configuration variable and points secrets at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	for key := range defaults {
		t.Setenv(key, "")
	}
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("CONFIG_FILE", "")
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	return dir
}

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mongodb://localhost:27017/", cfg.MongoURI)
	assert.Equal(t, "Cooking", cfg.MongoDatabase)
	assert.Equal(t, "Recipes", cfg.MongoCollection)
	assert.Equal(t, 10*time.Second, cfg.MongoTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.MinCategoryOccurrences)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, ":8080", cfg.ServerAddr())
	assert.Equal(t, []string{"http://localhost:5173", "http://frontend:5173"}, cfg.CORSOrigins)
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MONGO_DATABASE", "Epicurious")
	t.Setenv("MONGO_COLLECTION", "recipes")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("MIN_CATEGORY_OCCURRENCES", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "Epicurious", cfg.MongoDatabase)
	assert.Equal(t, "recipes", cfg.MongoCollection)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.MinCategoryOccurrences)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigSecretsOverrideInDevelopment(t *testing.T) {
	dir := isolate(t)
	writeSecret(t, dir, "mongo_uri", "mongodb://reader:secret@db:27017/")
	writeSecret(t, dir, "redis_password", "hunter2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://reader:secret@db:27017/", cfg.MongoURI)
	assert.Equal(t, "hunter2", cfg.RedisPassword)
}

func TestLoadConfigFromFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "insights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongo_database: FromFile\nrate_limit: 7\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "FromFile", cfg.MongoDatabase)
	assert.Equal(t, 7, cfg.RateLimit)
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("MONGO_DATABASE", "Cooking")
	t.Setenv("MONGO_COLLECTION", "Recipes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo_uri")
}

func TestLoadConfigProduction(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("MONGO_DATABASE", "Cooking")
	t.Setenv("MONGO_COLLECTION", "Recipes")
	writeSecret(t, dir, "mongo_uri", "mongodb+srv://cluster.example.net/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, "mongodb+srv://cluster.example.net/", cfg.MongoURI)
}

func TestLoadConfigCIRequiresMongoURI(t *testing.T) {
	isolate(t)
	t.Setenv("CI", "true")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestValidateConfigRejectsInvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("MONGO_URI", "postgres://localhost")
	t.Setenv("MIN_CATEGORY_OCCURRENCES", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "MongoURI")
	assert.Contains(t, err.Error(), "MinCategoryOccurrences")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	for value, want := range map[string]Environment{
		"production":  Production,
		"prod":        Production,
		"test":        Test,
		"development": Development,
		"":            Development,
	} {
		t.Setenv("ENV", value)
		assert.Equal(t, want, GetEnvironment(), "ENV=%q", value)
	}

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
