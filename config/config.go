package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported database drivers and profile store backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StoreGorm   = "gorm"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `ignored:"true"`

	// Server configuration
	ServerHost  string   `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ServerPort  string   `envconfig:"SERVER_PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`

	// Profile store: gorm keeps one row per key, redis one string per key
	StoreBackend string `envconfig:"STORE_BACKEND" default:"gorm"`
	SeedDefaults bool   `envconfig:"SEED_DEFAULTS" default:"true"`

	// Database configuration
	DBDriver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"allergyaid.db"`
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"allergyaid"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	// Redis configuration
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisURL      string `envconfig:"REDIS_URL"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"allergyaid:profile:"`

	// Open Food Facts lookups
	OpenFoodFactsURL string        `envconfig:"OPENFOODFACTS_URL" default:"https://world.openfoodfacts.org"`
	LookupTimeout    time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"15s"`
	ProductCacheTTL  time.Duration `envconfig:"PRODUCT_CACHE_TTL" default:"24h"`
	LookupRateLimit  int           `envconfig:"LOOKUP_RATE_LIMIT" default:"30"`
	LookupRateWindow time.Duration `envconfig:"LOOKUP_RATE_WINDOW" default:"1m"`

	// Optional YAML file replacing the built-in cross-reactivity table
	CrossReactivityTable string `envconfig:"CROSS_REACTIVITY_TABLE"`

	// Profile backups
	S3Bucket       string `envconfig:"S3_BUCKET_NAME"`
	S3Region       string `envconfig:"AWS_REGION" default:"eu-central-1"`
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
	BackupSchedule string `envconfig:"BACKUP_SCHEDULE"`
	BackupKeep     int    `envconfig:"BACKUP_KEEP" default:"7"`
}

// LoadConfig builds a Config from an optional .env file, environment
// variables and, for sensitive values, Docker secrets.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Environment: GetEnvironment()}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	// Docker secrets win over plain environment variables outside CI
	if cfg.Environment != CI {
		applySecret(&cfg.DBPassword, "db_password")
		applySecret(&cfg.RedisPassword, "redis_password")
		applySecret(&cfg.S3AccessKey, "s3_access_key")
		applySecret(&cfg.S3SecretKey, "s3_secret_key")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// BackupsEnabled reports whether profile snapshots can be shipped to S3.
func (c *Config) BackupsEnabled() bool {
	return c.S3Bucket != ""
}

func applySecret(dst *string, name string) {
	if v := readSecret(name); v != "" {
		*dst = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
