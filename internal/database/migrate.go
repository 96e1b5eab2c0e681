package database

import (
	"fmt"

	"github.com/pageza/allergyaid/backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations creates or updates the tables the profile store needs.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", models.KVEntry{}.TableName(), err)
	}
	return nil
}
