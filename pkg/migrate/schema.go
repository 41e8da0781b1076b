package migrate

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
)

// AutoMigrateModels builds the schema straight from the gorm models. The SQL
// migrations target postgres, so sqlite databases (local runs, tests) use this
// instead. Parents come before children so foreign keys resolve.
func AutoMigrateModels(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Sticker{},
		&models.UserSticker{},
	); err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}
