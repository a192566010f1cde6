package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"mcc-backend/internal/model"
	"mcc-backend/internal/repository"
	"mcc-backend/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateProductRequest struct {
	Name           string  `json:"name" binding:"required"`
	Category       string  `json:"category"`
	ReferencePrice float64 `json:"referencePrice"`
}

type UpdateProductRequest struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	ReferencePrice *float64 `json:"referencePrice"`
	Active         *bool    `json:"active"`
}

type ProductResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	ReferencePrice float64 `json:"referencePrice"`
	Active         bool    `json:"active"`
}

type ProductListResponse struct {
	Records    []ProductResponse `json:"records"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// --- Interface ---

type ProductService interface {
	List(ctx context.Context, page, limit int) (ProductListResponse, error)
	Create(ctx context.Context, req CreateProductRequest, actorID string) (ProductResponse, error)
	Update(ctx context.Context, id uint, req UpdateProductRequest, actorID string) (ProductResponse, error)
	Delete(ctx context.Context, id uint, actorID string) error
}

type productService struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewProductService(
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ProductService {
	return &productService{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *productService) List(ctx context.Context, page, limit int) (ProductListResponse, error) {
	products, total, err := s.productRepo.List(ctx, page, limit)
	if err != nil {
		log.Printf("products: failed to list (page=%d limit=%d): %v", page, limit, err)
		return ProductListResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	res := ProductListResponse{
		Records:    make([]ProductResponse, 0, len(products)),
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}
	for _, p := range products {
		res.Records = append(res.Records, toProductResponse(p))
	}

	return res, nil
}

func (s *productService) Create(ctx context.Context, req CreateProductRequest, actorID string) (ProductResponse, error) {
	if req.ReferencePrice < 0 {
		return ProductResponse{}, fmt.Errorf("%w: reference price must not be negative", ErrValidation)
	}

	if _, err := s.productRepo.FindByName(ctx, req.Name); err == nil {
		return ProductResponse{}, fmt.Errorf("%w: product %q already exists", ErrValidation, req.Name)
	}

	product := model.Product{
		Name:           req.Name,
		Category:       req.Category,
		ReferencePrice: decimal.NewFromFloat(req.ReferencePrice),
		Active:         true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateProduct, strconv.FormatUint(uint64(product.ID), 10), product.Name, req)
	})
	if err != nil {
		log.Printf("products: failed to create %q: %v", req.Name, err)
		return ProductResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toProductResponse(product), nil
}

func (s *productService) Update(ctx context.Context, id uint, req UpdateProductRequest, actorID string) (ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		log.Printf("products: failed to fetch %d: %v", id, err)
		return ProductResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.ReferencePrice != nil {
		if *req.ReferencePrice < 0 {
			return ProductResponse{}, fmt.Errorf("%w: reference price must not be negative", ErrValidation)
		}
		product.ReferencePrice = decimal.NewFromFloat(*req.ReferencePrice)
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateProduct, strconv.FormatUint(uint64(product.ID), 10), product.Name, req)
	})
	if err != nil {
		log.Printf("products: failed to update %d: %v", id, err)
		return ProductResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toProductResponse(*product), nil
}

func (s *productService) Delete(ctx context.Context, id uint, actorID string) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		log.Printf("products: failed to fetch %d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteProduct, strconv.FormatUint(uint64(id), 10), product.Name, nil)
	})
	if err != nil {
		log.Printf("products: failed to delete %d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		ReferencePrice: p.ReferencePrice.InexactFloat64(),
		Active:         p.Active,
	}
}
