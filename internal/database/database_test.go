package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "allergyaid.db"),
	}

	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))
	assert.True(t, db.Migrator().HasTable(&models.KVEntry{}))

	// migrations are idempotent
	require.NoError(t, RunMigrations(db))

	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "oracle"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRedisConfigured(t *testing.T) {
	assert.False(t, RedisConfigured(&config.Config{}))
	assert.True(t, RedisConfigured(&config.Config{RedisHost: "localhost"}))
	assert.True(t, RedisConfigured(&config.Config{RedisURL: "redis://localhost:6379"}))
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "://nope"}, zap.NewNop())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
