package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/pageza/allergyaid/backend/internal/testhelpers"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// exerciseKV runs the behavior every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", []byte(`["a"]`)))
	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`["a"]`), got)

	// whole-value overwrite
	require.NoError(t, kv.Set(ctx, "k", []byte(`[]`)))
	got, _, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

// exerciseProfileOnKV checks the profile merge end to end on a real backend.
func exerciseProfileOnKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	s := NewProfileStore(kv, zap.NewNop())

	require.True(t, s.Initialize(ctx))
	s.SaveTestResults(ctx, []models.TestResult{{Allergen: "Peanuts", Level: 4}})

	allergens := s.Allergens(ctx)
	require.Len(t, allergens, 2)
	assert.Equal(t, models.SeverityModerate, allergens[0].Severity)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
	exerciseProfileOnKV(t, NewMemoryKV())
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'x'

	got, _, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}

func TestGormKVSQLite(t *testing.T) {
	exerciseKV(t, NewGormKV(testhelpers.SetupSQLiteDatabase(t)))
	exerciseProfileOnKV(t, NewGormKV(testhelpers.SetupSQLiteDatabase(t)))
}

func TestGormKVUpsertKeepsOneRow(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	kv := NewGormKV(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, kv.Set(ctx, AllergensKey, []byte(fmt.Sprintf("[%d]", i))))
	}

	var count int64
	require.NoError(t, db.Model(&models.KVEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGormKVPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	exerciseKV(t, NewGormKV(db))
}

func TestRedisKV(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_HOST not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	prefix := fmt.Sprintf("allergyaid:test:%d:", time.Now().UnixNano())
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	})

	exerciseKV(t, NewRedisKV(client, prefix))
}

func TestNewRedisKVDefaultPrefix(t *testing.T) {
	kv := NewRedisKV(nil, "")
	assert.Equal(t, DefaultRedisPrefix, kv.prefix)
}
