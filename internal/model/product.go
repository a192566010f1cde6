package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry carrying a reference price for the calculator
// UI. Calculations store a free-text product label and do not reference
// this table.
type Product struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Category       string          `gorm:"type:varchar(100)" json:"category"`
	ReferencePrice decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"referencePrice"`
	Active         bool            `gorm:"not null;default:true;index" json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
