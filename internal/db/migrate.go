package db

import (
	"fmt"

	"github.com/zulandar/guestbook/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Message{},
	}
}

// AutoMigrate creates or updates all tables. The messages table is created
// with both the gallery_approved and commentary columns up front so
// moderation never depends on an ad hoc migration.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
