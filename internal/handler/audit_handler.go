package handler

import (
	"net/http"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/model"
	"mcc-backend/internal/service"
	"mcc-backend/pkg/pagination"
	"mcc-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", middleware.RequireRole(model.RoleAdmin), h.List)
}

// List returns the administrative audit trail, newest first
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	result, err := h.auditService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(result))
}
