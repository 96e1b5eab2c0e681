package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv pins the variables LoadConfig reads so the host environment
// cannot leak into a test.
func isolateEnv(t *testing.T) string {
	t.Helper()
	secrets := t.TempDir()
	for _, key := range []string{
		"CI", "SERVER_PORT", "STORE_BACKEND", "DB_DRIVER", "DB_HOST", "DB_USER",
		"DB_PASSWORD", "REDIS_HOST", "REDIS_URL", "LOOKUP_TIMEOUT", "S3_BUCKET_NAME",
		"BACKUP_SCHEDULE", "CORS_ORIGINS", "LOOKUP_RATE_LIMIT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", secrets)
	return secrets
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "allergyaid.db", cfg.SQLitePath)
	assert.Equal(t, StoreGorm, cfg.StoreBackend)
	assert.Equal(t, "https://world.openfoodfacts.org", cfg.OpenFoodFactsURL)
	assert.Equal(t, 15*time.Second, cfg.LookupTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDefaults)
	assert.False(t, cfg.BackupsEnabled())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "allergy")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "host=db port=5432 user=allergy password=from-env dbname=allergyaid sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestLoadConfigSecretsOverrideEnvironment(t *testing.T) {
	secrets := isolateEnv(t)
	t.Setenv("DB_PASSWORD", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "db_password"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.DBPassword)
}

func TestLoadConfigValidationFailure(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("STORE_BACKEND", "redis")

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "REDIS_HOST")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:      Development,
			ServerPort:       "8080",
			DBDriver:         DriverSQLite,
			SQLitePath:       "test.db",
			StoreBackend:     StoreGorm,
			LookupTimeout:    time.Second,
			LookupRateLimit:  10,
			LookupRateWindow: time.Minute,
			BackupKeep:       3,
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(valid()))
	})

	t.Run("production postgres needs a password", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = Production
		cfg.DBDriver = DriverPostgres
		cfg.DBHost = "db"
		cfg.DBUser = "u"
		cfg.DBName = "n"

		err := ValidateConfig(cfg)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "DB_PASSWORD", verrs[0].Field)
	})

	t.Run("backup schedule needs bucket and valid cron", func(t *testing.T) {
		cfg := valid()
		cfg.BackupSchedule = "not a schedule"

		err := ValidateConfig(cfg)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
	})

	t.Run("scheduled backups", func(t *testing.T) {
		cfg := valid()
		cfg.S3Bucket = "profiles"
		cfg.BackupSchedule = "0 3 * * *"
		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("timeouts", func(t *testing.T) {
		cfg := valid()
		cfg.LookupTimeout = 0
		cfg.LookupRateWindow = 0
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOOKUP_TIMEOUT")
		assert.Contains(t, err.Error(), "LOOKUP_RATE_WINDOW")
	})
}
