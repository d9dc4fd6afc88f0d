package database

import (
	"log"

	"procurement/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	// TranslateError maps unique violations to gorm.ErrDuplicatedKey so
	// services can tell a numbering race from a genuine failure.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PasswordResetToken{},
		&model.Client{},
		&model.Supplier{},
		&model.Item{},
		&model.QuotationRequest{},
		&model.QuotationItem{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.SupplierPricing{},
		&model.CustomerPricing{},
		&model.PricingHistory{},
		&model.ActivityLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
