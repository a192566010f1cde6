package database

import (
	"mcc-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// Schema setup is NOT done here — run cmd/migrate once at deploy time.
func NewConnection(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates the schema for all models. Called by the
// migrate command only, never during request handling.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.PricingFormula{},
		&model.Calculation{},
		&model.AuditLog{},
	)
}
