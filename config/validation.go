package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration for the current environment and
// reports all problems together.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "must be set")
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "must be set for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.DBHost == "" {
			add("DB_HOST", "must be set for the postgres driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "must be set for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "must be set for the postgres driver")
		}
		if cfg.Environment == Production && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required in production")
		}
	default:
		add("DB_DRIVER", "unsupported driver %q", cfg.DBDriver)
	}

	switch cfg.StoreBackend {
	case StoreGorm, StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" && cfg.RedisHost == "" {
			add("REDIS_HOST", "REDIS_HOST or REDIS_URL must be set for the redis store")
		}
	default:
		add("STORE_BACKEND", "unsupported backend %q", cfg.StoreBackend)
	}

	if cfg.LookupTimeout <= 0 {
		add("LOOKUP_TIMEOUT", "must be positive")
	}
	if cfg.LookupRateLimit < 0 {
		add("LOOKUP_RATE_LIMIT", "must not be negative")
	}
	if cfg.LookupRateLimit > 0 && cfg.LookupRateWindow <= 0 {
		add("LOOKUP_RATE_WINDOW", "must be positive when rate limiting is on")
	}

	if cfg.BackupSchedule != "" {
		if !cfg.BackupsEnabled() {
			add("BACKUP_SCHEDULE", "requires S3_BUCKET_NAME")
		}
		if _, err := cron.ParseStandard(cfg.BackupSchedule); err != nil {
			add("BACKUP_SCHEDULE", "invalid cron expression: %v", err)
		}
	}
	if cfg.BackupKeep < 1 {
		add("BACKUP_KEEP", "must be at least 1")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
