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

type VehicleHandler struct {
	vehicleService *services.VehicleService
	validator      *validator.Validate
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		validator:      validator.New(),
	}
}

// GetVehicles retrieves the fleet, optionally filtered by status or cost
// center query parameters.
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	var (
		vehicles interface{}
		err      error
	)

	switch {
	case c.Query("status") != "":
		vehicles, err = h.vehicleService.GetVehiclesByStatus(c.Query("status"))
	case c.Query("costCenter") != "":
		vehicles, err = h.vehicleService.GetVehiclesByCostCenter(c.Query("costCenter"))
	default:
		vehicles, err = h.vehicleService.GetFleet()
	}

	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve vehicles", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles)
}

// GetVehicle retrieves a specific vehicle by plate
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	plate := c.Param("plate")

	vehicle, err := h.vehicleService.GetVehicleByPlate(plate)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// CreateVehicle registers a new vehicle
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(&req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create vehicle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle created successfully", vehicle)
}

// UpdateVehicle updates an existing vehicle
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	plate := c.Param("plate")

	var req services.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(plate, &req)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update vehicle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle updated successfully", vehicle)
}

// UpdateKilometraje records a new odometer reading
func (h *VehicleHandler) UpdateKilometraje(c *gin.Context) {
	plate := c.Param("plate")

	var req services.UpdateKilometrajeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.UpdateKilometraje(plate, &req)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update kilometraje", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Kilometraje updated successfully", vehicle)
}

// AddDocument attaches a document to a vehicle
func (h *VehicleHandler) AddDocument(c *gin.Context) {
	plate := c.Param("plate")

	var req services.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.AddDocument(plate, &req)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to add document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Document added successfully", vehicle)
}

// RemoveDocument detaches a document from a vehicle
func (h *VehicleHandler) RemoveDocument(c *gin.Context) {
	plate := c.Param("plate")
	documentID := c.Param("documentId")

	vehicle, err := h.vehicleService.RemoveDocument(plate, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to remove document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Document removed successfully", vehicle)
}

// GetVigencia returns the useful-life projection for a vehicle. An optional
// lifeYears query overrides the age-based suggestion.
func (h *VehicleHandler) GetVigencia(c *gin.Context) {
	plate := c.Param("plate")

	lifeYears := 0
	if raw := c.Query("lifeYears"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "lifeYears must be a non-negative integer", err)
			return
		}
		lifeYears = parsed
	}

	vigencia, err := h.vehicleService.GetVigencia(plate, lifeYears)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to compute vigencia", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vigencia computed successfully", vigencia)
}

// DeleteVehicle deletes a vehicle
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	plate := c.Param("plate")

	if err := h.vehicleService.DeleteVehicle(plate); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Vehicle not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to delete vehicle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle deleted successfully", nil)
}
