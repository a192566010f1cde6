// Package seed inserts the default formulas, products and admin account on
// an empty database. It is idempotent: populated tables are left untouched.
package seed

import (
	"fmt"

	"mcc-backend/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Config contains the values required by the startup seed.
type Config struct {
	AdminUsername string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Run executes the seed inside one transaction.
func Run(db *gorm.DB, cfg Config) (Stats, error) {
	stats := Stats{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := seedFormulas(tx, &stats); err != nil {
			return err
		}
		if err := seedProducts(tx, &stats); err != nil {
			return err
		}
		return seedAdmin(tx, cfg, &stats)
	})
	if err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func seedFormulas(tx *gorm.DB, stats *Stats) error {
	var count int64
	if err := tx.Model(&model.PricingFormula{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count formulas: %w", err)
	}
	if count > 0 {
		return nil
	}

	formulas := []model.PricingFormula{
		{Name: "Fórmula General", ExciseRate: rate("0"), VATRate: rate("16"), MarginRate: rate("30"), Active: true},
		{Name: "Bebidas Alcohólicas", ExciseRate: rate("30"), VATRate: rate("16"), MarginRate: rate("40"), Active: true},
		{Name: "Tabacos", ExciseRate: rate("160"), VATRate: rate("16"), MarginRate: rate("35"), Active: true},
		{Name: "Gasolinas", ExciseRate: rate("5.5"), VATRate: rate("16"), MarginRate: rate("25"), Active: true},
		{Name: "Alimentos Básicos", ExciseRate: rate("0"), VATRate: rate("0"), MarginRate: rate("20"), Active: true},
	}

	if err := tx.Create(&formulas).Error; err != nil {
		return fmt.Errorf("insert default formulas: %w", err)
	}
	stats.Inserts += len(formulas)
	return nil
}

func seedProducts(tx *gorm.DB, stats *Stats) error {
	var count int64
	if err := tx.Model(&model.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := []model.Product{
		{Name: "Chocolate Importado", Category: "Dulces", ReferencePrice: rate("50"), Active: true},
		{Name: "Vino Tinto", Category: "Bebidas", ReferencePrice: rate("150"), Active: true},
		{Name: "Cigarros", Category: "Tabaco", ReferencePrice: rate("30"), Active: true},
		{Name: "Gasolina Premium", Category: "Combustible", ReferencePrice: rate("22.5"), Active: true},
		{Name: "Arroz", Category: "Alimentos", ReferencePrice: rate("15"), Active: true},
	}

	if err := tx.Create(&products).Error; err != nil {
		return fmt.Errorf("insert default products: %w", err)
	}
	stats.Inserts += len(products)
	return nil
}

func seedAdmin(tx *gorm.DB, cfg Config, stats *Stats) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := tx.Model(&model.User{}).Where("username = ?", cfg.AdminUsername).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.User{
		Username: cfg.AdminUsername,
		Password: string(hashed),
		Name:     "Administrador",
		Role:     model.RoleAdmin,
		Active:   true,
	}

	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}
