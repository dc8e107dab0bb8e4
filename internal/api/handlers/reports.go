package handlers

import (
	"net/http"

	"flota-backend/internal/services"
	"flota-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetCostReport aggregates maintenance spending, optionally bounded by
// from/to query dates (2006-01-02).
func (h *ReportHandler) GetCostReport(c *gin.Context) {
	report, err := h.reportService.GetCostReport(c.Query("from"), c.Query("to"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to build cost report", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cost report built successfully", report)
}
