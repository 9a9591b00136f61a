package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepiq/prepiq-service/internal/services"
	"github.com/prepiq/prepiq-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetReport returns the performance dashboard report
// @Summary Analytics report
// @Description Aggregates the caller's attempts into subject stats, score trend and weak/strong topics
// @Tags analytics
// @Produce json
// @Success 200 {object} analytics.Report
// @Failure 500 {object} ErrorResponse
// @Router /analytics [get]
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.GetReport(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportHistory downloads the attempt history as an Excel file
// @Summary Export history
// @Description Streams the caller's quiz history as an xlsx workbook
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse
// @Router /analytics/export [get]
func (h *AnalyticsHandler) ExportHistory(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportHistoryToExcel(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-history-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
