package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"flota-backend/internal/repository"
	"flota-backend/internal/services"
	"flota-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
	validator          *validator.Validate
}

func NewMaintenanceHandler(maintenanceService *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		validator:          validator.New(),
	}
}

// CreateRecord registers a maintenance entry
func (h *MaintenanceHandler) CreateRecord(c *gin.Context) {
	var req services.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	record, err := h.maintenanceService.CreateRecord(&req)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create maintenance record", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Maintenance record created successfully", record)
}

// GetRecords lists maintenance entries with limit/offset paging
func (h *MaintenanceHandler) GetRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.maintenanceService.GetRecords(limit, offset)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve maintenance records", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance records retrieved successfully", records)
}

// GetRecordsByPlate lists the history of one vehicle
func (h *MaintenanceHandler) GetRecordsByPlate(c *gin.Context) {
	plate := c.Param("plate")

	records, err := h.maintenanceService.GetRecordsByPlate(plate)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve maintenance records", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance records retrieved successfully", records)
}

// GetRecord retrieves a single maintenance entry
func (h *MaintenanceHandler) GetRecord(c *gin.Context) {
	id := c.Param("id")

	record, err := h.maintenanceService.GetRecord(id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Maintenance record not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance record retrieved successfully", record)
}

// DeleteRecord removes a maintenance entry
func (h *MaintenanceHandler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")

	if err := h.maintenanceService.DeleteRecord(id); err != nil {
		if errors.Is(err, repository.ErrMaintenanceNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Maintenance record not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to delete maintenance record", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Maintenance record deleted successfully", nil)
}
