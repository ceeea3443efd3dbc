package database

import (
	"fmt"

	"github.com/arenashop/storefront/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the storefront uses.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Variant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Message{},
		&models.DiscountCode{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
