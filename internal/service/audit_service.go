package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mcc-backend/internal/model"
	"mcc-backend/internal/repository"
	"mcc-backend/pkg/pagination"

	"github.com/google/uuid"
)

type AuditEntryResponse struct {
	ID         string `json:"id"`
	User       string `json:"user"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditListResponse struct {
	Records    []AuditEntryResponse `json:"records"`
	Total      int64                `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

type AuditService interface {
	List(ctx context.Context, page, limit int) (AuditListResponse, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) List(ctx context.Context, page, limit int) (AuditListResponse, error) {
	entries, total, err := s.auditRepo.List(ctx, page, limit)
	if err != nil {
		log.Printf("audit: failed to list entries (page=%d limit=%d): %v", page, limit, err)
		return AuditListResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	res := AuditListResponse{
		Records:    make([]AuditEntryResponse, 0, len(entries)),
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}
	for _, e := range entries {
		entry := AuditEntryResponse{
			ID:         e.ID.String(),
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
		if e.User != nil {
			entry.User = e.User.Username
		}
		res.Records = append(res.Records, entry)
	}

	return res, nil
}

// writeAudit records an administrative mutation. Callers run it inside the
// same transaction as the mutation so the trail never drifts from the data.
func writeAudit(ctx context.Context, repo repository.AuditRepository, actorID, action, entityID, entityName string, details interface{}) error {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if actorID != "" {
		if parsed, err := uuid.Parse(actorID); err == nil {
			entry.UserID = &parsed
		}
	}

	return repo.Create(ctx, &entry)
}
