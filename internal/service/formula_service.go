package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"mcc-backend/internal/model"
	"mcc-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateFormulaRequest struct {
	Name       string   `json:"name" binding:"required"`
	ExciseRate float64  `json:"exciseRate"`
	VATRate    *float64 `json:"vatRate"`    // Defaults to 16 when absent
	MarginRate *float64 `json:"marginRate"` // Defaults to 30 when absent
}

type UpdateFormulaRequest struct {
	Name       string  `json:"name" binding:"required"`
	ExciseRate float64 `json:"exciseRate"`
	VATRate    float64 `json:"vatRate"`
	MarginRate float64 `json:"marginRate"`
	Active     *bool   `json:"active"`
}

type FormulaResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	ExciseRate float64 `json:"exciseRate"`
	VATRate    float64 `json:"vatRate"`
	MarginRate float64 `json:"marginRate"`
	Active     bool    `json:"active"`
}

// --- Interface ---

type FormulaService interface {
	ListActive(ctx context.Context) ([]FormulaResponse, error)
	Create(ctx context.Context, req CreateFormulaRequest, actorID string) (FormulaResponse, error)
	Update(ctx context.Context, id uint, req UpdateFormulaRequest, actorID string) (FormulaResponse, error)
	Deactivate(ctx context.Context, id uint, actorID string) error
}

type formulaService struct {
	formulaRepo repository.FormulaRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewFormulaService(
	formulaRepo repository.FormulaRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) FormulaService {
	return &formulaService{
		formulaRepo: formulaRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *formulaService) ListActive(ctx context.Context) ([]FormulaResponse, error) {
	formulas, err := s.formulaRepo.ListActive(ctx)
	if err != nil {
		log.Printf("formulas: failed to list active formulas: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	res := make([]FormulaResponse, 0, len(formulas))
	for _, f := range formulas {
		res = append(res, toFormulaResponse(f))
	}

	return res, nil
}

func (s *formulaService) Create(ctx context.Context, req CreateFormulaRequest, actorID string) (FormulaResponse, error) {
	vat := 16.0
	if req.VATRate != nil {
		vat = *req.VATRate
	}
	margin := 30.0
	if req.MarginRate != nil {
		margin = *req.MarginRate
	}

	if req.ExciseRate < 0 || vat < 0 || margin < 0 {
		return FormulaResponse{}, fmt.Errorf("%w: rates must not be negative", ErrValidation)
	}

	formula := model.PricingFormula{
		Name:       req.Name,
		ExciseRate: decimal.NewFromFloat(req.ExciseRate),
		VATRate:    decimal.NewFromFloat(vat),
		MarginRate: decimal.NewFromFloat(margin),
		Active:     true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.formulaRepo.Create(txCtx, &formula); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateFormula, strconv.FormatUint(uint64(formula.ID), 10), formula.Name, req)
	})
	if err != nil {
		log.Printf("formulas: failed to create %q: %v", req.Name, err)
		return FormulaResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toFormulaResponse(formula), nil
}

func (s *formulaService) Update(ctx context.Context, id uint, req UpdateFormulaRequest, actorID string) (FormulaResponse, error) {
	if req.ExciseRate < 0 || req.VATRate < 0 || req.MarginRate < 0 {
		return FormulaResponse{}, fmt.Errorf("%w: rates must not be negative", ErrValidation)
	}

	formula, err := s.formulaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FormulaResponse{}, fmt.Errorf("%w: formula %d", ErrNotFound, id)
		}
		log.Printf("formulas: failed to fetch %d: %v", id, err)
		return FormulaResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	formula.Name = req.Name
	formula.ExciseRate = decimal.NewFromFloat(req.ExciseRate)
	formula.VATRate = decimal.NewFromFloat(req.VATRate)
	formula.MarginRate = decimal.NewFromFloat(req.MarginRate)
	if req.Active != nil {
		formula.Active = *req.Active
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.formulaRepo.Update(txCtx, formula); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateFormula, strconv.FormatUint(uint64(formula.ID), 10), formula.Name, req)
	})
	if err != nil {
		log.Printf("formulas: failed to update %d: %v", id, err)
		return FormulaResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toFormulaResponse(*formula), nil
}

// Deactivate soft-deletes a formula by flipping Active off. The row stays
// in place so historical listings can still resolve it.
func (s *formulaService) Deactivate(ctx context.Context, id uint, actorID string) error {
	formula, err := s.formulaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: formula %d", ErrNotFound, id)
		}
		log.Printf("formulas: failed to fetch %d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	formula.Active = false

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.formulaRepo.Update(txCtx, formula); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeactivateFormula, strconv.FormatUint(uint64(formula.ID), 10), formula.Name, nil)
	})
	if err != nil {
		log.Printf("formulas: failed to deactivate %d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return nil
}

func toFormulaResponse(f model.PricingFormula) FormulaResponse {
	return FormulaResponse{
		ID:         f.ID,
		Name:       f.Name,
		ExciseRate: f.ExciseRate.InexactFloat64(),
		VATRate:    f.VATRate.InexactFloat64(),
		MarginRate: f.MarginRate.InexactFloat64(),
		Active:     f.Active,
	}
}
