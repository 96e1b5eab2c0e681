package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/pageza/allergyaid/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment:      config.Test,
		StoreBackend:     config.StoreGorm,
		SeedDefaults:     true,
		DBDriver:         config.DriverSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "allergyaid.db"),
		OpenFoodFactsURL: "http://127.0.0.1:1",
		BackupKeep:       7,
	}
}

func TestNewWithSQLite(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.NotNil(t, a.DB)
	assert.Nil(t, a.Redis)
	assert.Nil(t, a.Backup)
	assert.NoError(t, a.Health(ctx))
	assert.Equal(t, store.DefaultAllergens, a.Store.Allergens(ctx))
}

func TestProfileSurvivesReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	a.Profile.AddOrUpdateAllergen(ctx, models.Allergen{Name: "Milk", Level: 4})
	require.NoError(t, a.Close())

	b, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	allergens := b.Store.Allergens(ctx)
	require.Len(t, allergens, 3)
	assert.Equal(t, "Milk", allergens[2].Name)
}

func TestNewMemoryStoreWithoutSeeding(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = config.StoreMemory
	cfg.SeedDefaults = false

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, a.DB)
	assert.Empty(t, a.Store.Allergens(context.Background()))
}

func TestNewCustomCrossReactivityTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - allergen: Birch\n    related: [Apple, Pear]\n"), 0o600))

	cfg := testConfig(t)
	cfg.StoreBackend = config.StoreMemory
	cfg.CrossReactivityTable = path

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "pear"}, a.Profile.CrossReactivity("birch"))

	cfg.CrossReactivityTable = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisStoreRequiresRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreBackend = config.StoreRedis

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
