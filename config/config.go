package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string `validate:"required,numeric"`
	ServerHost string

	// Document store configuration
	MongoURI        string        `validate:"required,startswith=mongodb"`
	MongoDatabase   string        `validate:"required"`
	MongoCollection string        `validate:"required"`
	MongoTimeout    time.Duration `validate:"gt=0"`

	// Redis configuration; empty RedisURL and RedisHost disable caching
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int           `validate:"gte=0"`
	CacheTTL      time.Duration `validate:"gte=0"`

	// Rate limiting for the HTTP API; zero disables it
	RateLimit  int           `validate:"gte=0"`
	RateWindow time.Duration `validate:"gt=0"`

	// Origins allowed to call the HTTP API from a browser
	CORSOrigins []string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	// Categories need at least this many recipes to be ranked by rating
	MinCategoryOccurrences int `validate:"gte=1"`

	// Chart output
	ChartDir     string
	S3BucketName string
	AWSRegion    string

	// DataFile is a JSON dataset used when the source is a file instead of MongoDB
	DataFile string
}

// RedisEnabled reports whether a Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// ServerAddr returns the listen address for the HTTP server.
func (c *Config) ServerAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}

var defaults = map[string]any{
	"SERVER_PORT":              "8080",
	"SERVER_HOST":              "",
	"MONGO_URI":                "mongodb://localhost:27017/",
	"MONGO_DATABASE":           "Cooking",
	"MONGO_COLLECTION":         "Recipes",
	"MONGO_TIMEOUT":            "10s",
	"REDIS_URL":                "",
	"REDIS_HOST":               "",
	"REDIS_PORT":               "6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"CACHE_TTL":                "5m",
	"RATE_LIMIT":               120,
	"RATE_WINDOW":              "1m",
	"CORS_ALLOWED_ORIGINS":     "http://localhost:5173,http://frontend:5173",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
	"MIN_CATEGORY_OCCURRENCES": 10,
	"CHART_DIR":                "charts",
	"S3_BUCKET_NAME":           "",
	"AWS_REGION":               "",
	"DATA_FILE":                "",
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v, err := newViper()
	if err != nil {
		return nil, err
	}
	cfg := fromViper(v)
	cfg.Environment = env

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:             v.GetString("SERVER_PORT"),
		ServerHost:             v.GetString("SERVER_HOST"),
		MongoURI:               v.GetString("MONGO_URI"),
		MongoDatabase:          v.GetString("MONGO_DATABASE"),
		MongoCollection:        v.GetString("MONGO_COLLECTION"),
		MongoTimeout:           v.GetDuration("MONGO_TIMEOUT"),
		RedisURL:               v.GetString("REDIS_URL"),
		RedisHost:              v.GetString("REDIS_HOST"),
		RedisPort:              v.GetString("REDIS_PORT"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		CacheTTL:               v.GetDuration("CACHE_TTL"),
		RateLimit:              v.GetInt("RATE_LIMIT"),
		RateWindow:             v.GetDuration("RATE_WINDOW"),
		CORSOrigins:            splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:               strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:              strings.ToLower(v.GetString("LOG_FORMAT")),
		MinCategoryOccurrences: v.GetInt("MIN_CATEGORY_OCCURRENCES"),
		ChartDir:               v.GetString("CHART_DIR"),
		S3BucketName:           v.GetString("S3_BUCKET_NAME"),
		AWSRegion:              v.GetString("AWS_REGION"),
		DataFile:               v.GetString("DATA_FILE"),
	}
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadCIConfig uses environment variables only; the connection string must be explicit.
func loadCIConfig(cfg *Config) error {
	if os.Getenv("MONGO_URI") == "" {
		return fmt.Errorf("MONGO_URI environment variable is required in CI environment")
	}
	return nil
}

// loadDevConfig lets Docker secrets override environment values when present.
func loadDevConfig(cfg *Config) {
	if uri := readSecret("mongo_uri"); uri != "" {
		cfg.MongoURI = uri
	}
	if password := readSecret("redis_password"); password != "" {
		cfg.RedisPassword = password
	}
}

// loadProdConfig takes credentials from Docker secrets only.
func loadProdConfig(cfg *Config) {
	cfg.MongoURI = readSecret("mongo_uri")
	cfg.RedisPassword = readSecret("redis_password")
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(secretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
