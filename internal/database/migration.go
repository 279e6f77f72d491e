package database

import (
	"fmt"

	"github.com/crisdel29/siscontevolucion/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Company{},
		&models.Asset{},
		&models.Movement{},
		&models.Valuation{},
		&models.Depreciation{},
		&models.ImportFile{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
