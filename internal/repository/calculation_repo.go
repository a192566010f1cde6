package repository

import (
	"context"
	"time"

	"mcc-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stats aggregates the calculation history for the dashboard.
type Stats struct {
	TotalCalculations int64
	TotalProfit       decimal.Decimal
	TodayCount        int64
	TopProduct        string
}

// CalculationRepository persists calculation records. The history is an
// append-only audit log: there are intentionally no update or delete
// operations.
type CalculationRepository interface {
	Create(ctx context.Context, calc *model.Calculation) error
	List(ctx context.Context, page, limit int) ([]model.Calculation, int64, error)
	ListAll(ctx context.Context) ([]model.Calculation, error)
	GetStats(ctx context.Context, now time.Time) (Stats, error)
}

type calculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calc *model.Calculation) error {
	return GetDB(ctx, r.db).Create(calc).Error
}

// List returns records newest first.
func (r *calculationRepository) List(ctx context.Context, page, limit int) ([]model.Calculation, int64, error) {
	var calcs []model.Calculation
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Calculation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&calcs).Error; err != nil {
		return nil, 0, err
	}

	return calcs, total, nil
}

// ListAll returns the full history newest first, for spreadsheet export.
func (r *calculationRepository) ListAll(ctx context.Context) ([]model.Calculation, error) {
	var calcs []model.Calculation
	if err := GetDB(ctx, r.db).Order("created_at desc, id desc").Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

func (r *calculationRepository) GetStats(ctx context.Context, now time.Time) (Stats, error) {
	db := GetDB(ctx, r.db)
	var stats Stats

	if err := db.Model(&model.Calculation{}).Count(&stats.TotalCalculations).Error; err != nil {
		return Stats{}, err
	}

	var sum struct {
		Value decimal.Decimal
	}
	if err := db.Model(&model.Calculation{}).
		Select("COALESCE(SUM(profit), 0) as value").
		Scan(&sum).Error; err != nil {
		return Stats{}, err
	}
	stats.TotalProfit = sum.Value

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&model.Calculation{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.TodayCount).Error; err != nil {
		return Stats{}, err
	}

	var top struct {
		Product string
	}
	err := db.Model(&model.Calculation{}).
		Select("product, COUNT(*) as uses").
		Group("product").
		Order("uses DESC, product ASC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return Stats{}, err
	}
	stats.TopProduct = top.Product

	return stats, nil
}
