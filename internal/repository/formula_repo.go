package repository

import (
	"context"

	"mcc-backend/internal/model"

	"gorm.io/gorm"
)

type FormulaRepository interface {
	Create(ctx context.Context, formula *model.PricingFormula) error
	Update(ctx context.Context, formula *model.PricingFormula) error
	FindByID(ctx context.Context, id uint) (*model.PricingFormula, error)
	ListActive(ctx context.Context) ([]model.PricingFormula, error)
	List(ctx context.Context, page, limit int) ([]model.PricingFormula, int64, error)
}

type formulaRepository struct {
	db *gorm.DB
}

func NewFormulaRepository(db *gorm.DB) FormulaRepository {
	return &formulaRepository{db: db}
}

func (r *formulaRepository) Create(ctx context.Context, formula *model.PricingFormula) error {
	return GetDB(ctx, r.db).Create(formula).Error
}

func (r *formulaRepository) Update(ctx context.Context, formula *model.PricingFormula) error {
	return GetDB(ctx, r.db).Save(formula).Error
}

func (r *formulaRepository) FindByID(ctx context.Context, id uint) (*model.PricingFormula, error) {
	var formula model.PricingFormula
	if err := GetDB(ctx, r.db).First(&formula, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &formula, nil
}

// ListActive returns the active formula set in insertion order.
func (r *formulaRepository) ListActive(ctx context.Context) ([]model.PricingFormula, error) {
	var formulas []model.PricingFormula
	if err := GetDB(ctx, r.db).Where("active = ?", true).Order("id asc").Find(&formulas).Error; err != nil {
		return nil, err
	}
	return formulas, nil
}

func (r *formulaRepository) List(ctx context.Context, page, limit int) ([]model.PricingFormula, int64, error) {
	var formulas []model.PricingFormula
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PricingFormula{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("id asc").Offset(offset).Limit(limit).Find(&formulas).Error; err != nil {
		return nil, 0, err
	}

	return formulas, total, nil
}
