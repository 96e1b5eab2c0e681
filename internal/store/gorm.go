package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/allergyaid/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKV stores each key as a row of kv_entries. It works on sqlite and postgres.
type GormKV struct {
	db *gorm.DB
}

var _ KV = (*GormKV)(nil)

// NewGormKV returns a KV over db. The kv_entries table must already exist;
// see database.RunMigrations.
func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{db: db}
}

func (g *GormKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (g *GormKV) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}
