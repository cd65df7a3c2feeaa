package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/models"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Food{},
		&models.FoodEntry{},
		&models.NutritionalGoal{},
		&models.AuditLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
