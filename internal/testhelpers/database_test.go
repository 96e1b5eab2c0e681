package testhelpers

import (
	"testing"
	"time"

	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSQLiteDatabase(t *testing.T) {
	db := SetupSQLiteDatabase(t)
	require.NotNil(t, db)

	entry := models.KVEntry{Key: "k", Value: []byte(`[]`), UpdatedAt: time.Now()}
	require.NoError(t, db.Create(&entry).Error)

	var got models.KVEntry
	require.NoError(t, db.First(&got, "key = ?", "k").Error)
	assert.Equal(t, []byte(`[]`), got.Value)
}

func TestSetupSQLiteDatabaseIsPrivate(t *testing.T) {
	db := SetupSQLiteDatabase(t)

	var count int64
	require.NoError(t, db.Model(&models.KVEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}
