package handler

import (
	"net/http"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/service"
	"mcc-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", middleware.RequireAuth(), h.GetStats)
}

// GetStats returns dashboard aggregates over the calculation history
// @Summary      Get dashboard statistics
// @Description  Record count, total profit, today's count and the most frequently calculated product
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{result=service.StatsResponse}
// @Failure      500  {object}  response.Envelope
// @Router       /stats [get]
func (h *StatisticsHandler) GetStats(c *gin.Context) {
	stats, err := h.statisticsService.GetStats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(stats))
}
