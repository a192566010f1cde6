package handler

import (
	"mcc-backend/internal/middleware"
	"mcc-backend/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/export/excel", middleware.RequireAuth(), h.HistoryExcel)
}

// HistoryExcel streams the full calculation history as an xlsx download
// @Summary      Export calculation history to Excel
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Envelope
// @Router       /export/excel [get]
func (h *ExportHandler) HistoryExcel(c *gin.Context) {
	filename, data, err := h.exportService.HistoryExcel(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, xlsxContentType, data)
}
