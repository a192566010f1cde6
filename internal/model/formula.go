package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingFormula is a named preset of the three rate parameters used by the
// price calculator. Rates are whole-number percentages (16 = 16%).
// Formulas are never hard-deleted; deactivation flips Active to false and
// excludes the row from lookup and listing.
type PricingFormula struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	ExciseRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"exciseRate"`
	VATRate    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:16" json:"vatRate"`
	MarginRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:30" json:"marginRate"`
	Active     bool            `gorm:"not null;default:true;index" json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (PricingFormula) TableName() string {
	return "formulas"
}
