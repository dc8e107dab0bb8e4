package handlers

import (
	"net/http"

	"flota-backend/internal/models"
	"flota-backend/internal/services"
	"flota-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// GetAlerts returns the current alert set, filtered by optional severity and
// plate query parameters.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	severity := c.Query("severity")
	if severity != "" && severity != models.SeverityAlta && severity != models.SeverityMedia {
		utils.ErrorResponse(c, http.StatusBadRequest, "severity must be alta or media", nil)
		return
	}

	alerts, err := h.alertService.GetAlerts(severity, c.Query("plate"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to evaluate alerts", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alerts retrieved successfully", alerts)
}

// GetDigests returns the WhatsApp digest preview for every alert recipient
func (h *AlertHandler) GetDigests(c *gin.Context) {
	digests, err := h.alertService.GetDigests()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to build alert digests", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Alert digests built successfully", digests)
}
