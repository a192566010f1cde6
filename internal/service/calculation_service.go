package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mcc-backend/internal/model"
	"mcc-backend/internal/pricing"
	"mcc-backend/internal/repository"
	"mcc-backend/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default rates applied when the request leaves them unset.
var (
	DefaultExciseRate = decimal.NewFromInt(0)
	DefaultVATRate    = decimal.NewFromInt(16)
	DefaultMarginRate = decimal.NewFromInt(30)
)

// --- DTOs ---

// CalculateRequest uses pointers for the numeric fields so that "absent"
// (apply default) is distinguishable from an explicit zero.
type CalculateRequest struct {
	Product    string   `json:"product" binding:"required"`
	BasePrice  *float64 `json:"basePrice" binding:"required"`
	ExciseRate *float64 `json:"exciseRate"`
	VATRate    *float64 `json:"vatRate"`
	MarginRate *float64 `json:"marginRate"`
	FormulaID  *uint    `json:"formulaId"` // Optional: rates not set explicitly come from this formula
}

type CalculateResponse struct {
	BasePrice     float64 `json:"basePrice"`
	ExciseAmount  float64 `json:"exciseAmount"`
	VATAmount     float64 `json:"vatAmount"`
	TotalCost     float64 `json:"totalCost"`
	Profit        float64 `json:"profit"`
	FinalPrice    float64 `json:"finalPrice"`
	MarginPercent float64 `json:"marginPercent"`
}

type CalculationRecordResponse struct {
	ID         uint    `json:"id"`
	Product    string  `json:"product"`
	BasePrice  float64 `json:"basePrice"`
	ExciseRate float64 `json:"exciseRate"`
	VATRate    float64 `json:"vatRate"`
	MarginRate float64 `json:"marginRate"`
	FinalPrice float64 `json:"finalPrice"`
	Profit     float64 `json:"profit"`
	User       string  `json:"user"`
	Timestamp  string  `json:"timestamp"`
}

type HistoryResponse struct {
	Records    []CalculationRecordResponse `json:"records"`
	Total      int64                       `json:"total"`
	TotalPages int                         `json:"totalPages"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
}

// --- Interface ---

// CalculationNotifier pushes each new calculation record to connected
// dashboard clients. Delivery is best-effort and never fails a calculation.
type CalculationNotifier interface {
	BroadcastJSON(v interface{})
}

type CalculationService interface {
	Calculate(ctx context.Context, req CalculateRequest, username string) (CalculateResponse, error)
	History(ctx context.Context, page, limit int) (HistoryResponse, error)
}

type calculationService struct {
	calcRepo    repository.CalculationRepository
	formulaRepo repository.FormulaRepository
	notifier    CalculationNotifier
}

func NewCalculationService(
	calcRepo repository.CalculationRepository,
	formulaRepo repository.FormulaRepository,
	notifier CalculationNotifier,
) CalculationService {
	return &calculationService{
		calcRepo:    calcRepo,
		formulaRepo: formulaRepo,
		notifier:    notifier,
	}
}

// --- Implementation ---

func (s *calculationService) Calculate(ctx context.Context, req CalculateRequest, username string) (CalculateResponse, error) {
	rates, err := s.resolveRates(ctx, req)
	if err != nil {
		return CalculateResponse{}, err
	}

	basePrice := decimal.NewFromFloat(*req.BasePrice)

	breakdown, err := pricing.Calculate(basePrice, rates)
	if err != nil {
		return CalculateResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	record := model.Calculation{
		Product:    req.Product,
		BasePrice:  basePrice,
		ExciseRate: rates.Excise,
		VATRate:    rates.VAT,
		MarginRate: rates.Margin,
		FinalPrice: breakdown.FinalPrice,
		Profit:     breakdown.Profit,
		Username:   username,
	}

	if err := s.calcRepo.Create(ctx, &record); err != nil {
		log.Printf("calculate: failed to persist record for product %q by %s: %v", req.Product, username, err)
		return CalculateResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if s.notifier != nil {
		s.notifier.BroadcastJSON(toRecordResponse(record))
	}

	marginPercent, _ := rates.Margin.Float64()
	return CalculateResponse{
		BasePrice:     *req.BasePrice,
		ExciseAmount:  breakdown.ExciseAmount.InexactFloat64(),
		VATAmount:     breakdown.VATAmount.InexactFloat64(),
		TotalCost:     breakdown.TotalCost.InexactFloat64(),
		Profit:        breakdown.Profit.InexactFloat64(),
		FinalPrice:    breakdown.FinalPrice.InexactFloat64(),
		MarginPercent: marginPercent,
	}, nil
}

func (s *calculationService) History(ctx context.Context, page, limit int) (HistoryResponse, error) {
	records, total, err := s.calcRepo.List(ctx, page, limit)
	if err != nil {
		log.Printf("history: failed to list calculations (page=%d limit=%d): %v", page, limit, err)
		return HistoryResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	res := HistoryResponse{
		Records:    make([]CalculationRecordResponse, 0, len(records)),
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}
	for _, r := range records {
		res.Records = append(res.Records, toRecordResponse(r))
	}

	return res, nil
}

// resolveRates merges explicit request rates, the optional formula preset
// and the system defaults, in that precedence order.
func (s *calculationService) resolveRates(ctx context.Context, req CalculateRequest) (pricing.Rates, error) {
	excise := DefaultExciseRate
	vat := DefaultVATRate
	margin := DefaultMarginRate

	if req.FormulaID != nil {
		formula, err := s.formulaRepo.FindByID(ctx, *req.FormulaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pricing.Rates{}, fmt.Errorf("%w: formula %d", ErrNotFound, *req.FormulaID)
			}
			log.Printf("calculate: failed to load formula %d: %v", *req.FormulaID, err)
			return pricing.Rates{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if !formula.Active {
			return pricing.Rates{}, fmt.Errorf("%w: formula %d", ErrNotFound, *req.FormulaID)
		}
		excise = formula.ExciseRate
		vat = formula.VATRate
		margin = formula.MarginRate
	}

	if req.ExciseRate != nil {
		excise = decimal.NewFromFloat(*req.ExciseRate)
	}
	if req.VATRate != nil {
		vat = decimal.NewFromFloat(*req.VATRate)
	}
	if req.MarginRate != nil {
		margin = decimal.NewFromFloat(*req.MarginRate)
	}

	return pricing.Rates{Excise: excise, VAT: vat, Margin: margin}, nil
}

func toRecordResponse(r model.Calculation) CalculationRecordResponse {
	return CalculationRecordResponse{
		ID:         r.ID,
		Product:    r.Product,
		BasePrice:  r.BasePrice.InexactFloat64(),
		ExciseRate: r.ExciseRate.InexactFloat64(),
		VATRate:    r.VATRate.InexactFloat64(),
		MarginRate: r.MarginRate.InexactFloat64(),
		FinalPrice: r.FinalPrice.InexactFloat64(),
		Profit:     r.Profit.InexactFloat64(),
		User:       r.Username,
		Timestamp:  r.CreatedAt.Format(time.RFC3339),
	}
}
