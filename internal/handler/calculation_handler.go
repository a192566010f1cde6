package handler

import (
	"net/http"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/service"
	"mcc-backend/pkg/pagination"
	"mcc-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalculationHandler struct {
	calcService service.CalculationService
}

func NewCalculationHandler(calcService service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

func (h *CalculationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/calculate", middleware.RequireAuth(), h.Calculate)
	router.GET("/history", middleware.RequireAuth(), h.History)
}

// Calculate computes a sale price and appends the result to the history
// @Summary      Calculate a sale price
// @Description  Applies the cascading excise/VAT/margin computation to a base price and records the result
// @Tags         calculations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CalculateRequest  true  "Calculation input"
// @Success      200      {object}  response.Envelope{result=service.CalculateResponse}
// @Failure      400      {object}  response.Envelope
// @Failure      422      {object}  response.Envelope
// @Router       /calculate [post]
func (h *CalculationHandler) Calculate(c *gin.Context) {
	var req service.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	result, err := h.calcService.Calculate(c.Request.Context(), req, middleware.Username(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(result))
}

// History returns the calculation audit log, newest first
// @Summary      List calculation history
// @Tags         calculations
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Envelope{result=service.HistoryResponse}
// @Router       /history [get]
func (h *CalculationHandler) History(c *gin.Context) {
	params := pagination.Parse(c)

	result, err := h.calcService.History(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(result))
}
