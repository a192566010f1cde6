package handler

import (
	"net/http"
	"strconv"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/model"
	"mcc-backend/internal/service"
	"mcc-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FormulaHandler struct {
	formulaService service.FormulaService
}

func NewFormulaHandler(formulaService service.FormulaService) *FormulaHandler {
	return &FormulaHandler{formulaService: formulaService}
}

func (h *FormulaHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/formulas", middleware.RequireAuth(), h.ListActive)

	admin := router.Group("/formulas")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Deactivate)
	}
}

// ListActive returns the active formula presets
// @Summary      List active pricing formulas
// @Tags         formulas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{result=[]service.FormulaResponse}
// @Router       /formulas [get]
func (h *FormulaHandler) ListActive(c *gin.Context) {
	formulas, err := h.formulaService.ListActive(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(formulas))
}

// Create adds a new formula preset
func (h *FormulaHandler) Create(c *gin.Context) {
	var req service.CreateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	formula, err := h.formulaService.Create(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK(formula))
}

// Update replaces the rates of an existing formula
func (h *FormulaHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid formula id"))
		return
	}

	var req service.UpdateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	formula, err := h.formulaService.Update(c.Request.Context(), uint(id), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(formula))
}

// Deactivate soft-deletes a formula (flips active off)
func (h *FormulaHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid formula id"))
		return
	}

	if err := h.formulaService.Deactivate(c.Request.Context(), uint(id), middleware.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(gin.H{"deactivated": id}))
}
