package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculation is one entry of the price-calculation audit log.
// Rows are immutable once created: the rates are copied at calculation time
// so later formula edits never rewrite history, and the repository exposes
// no update or delete.
type Calculation struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Product    string          `gorm:"type:varchar(255);not null" json:"product"` // Free-text label, no FK to products
	BasePrice  decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"basePrice"`
	ExciseRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"exciseRate"`
	VATRate    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:16" json:"vatRate"`
	MarginRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:30" json:"marginRate"`
	FinalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"finalPrice"`
	Profit     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"profit"`
	Username   string          `gorm:"type:varchar(255);not null;index" json:"user"`
	CreatedAt  time.Time       `gorm:"index" json:"timestamp"`
}

func (Calculation) TableName() string {
	return "calculations"
}
