package services

import (
	"errors"
	"time"

	"flota-backend/internal/models"
	"flota-backend/internal/repository"
)

// maintenanceStore is the slice of the maintenance repository this service
// needs. *repository.MaintenanceRepository satisfies it.
type maintenanceStore interface {
	Create(record *models.MaintenanceRecord) error
	FindByID(id string) (*models.MaintenanceRecord, error)
	FindByPlate(plate string) ([]models.MaintenanceRecord, error)
	FindAll(limit, offset int) ([]models.MaintenanceRecord, error)
	LastByPlate(plate string) (*models.MaintenanceRecord, error)
	Delete(id string) error
}

// maintenanceVehicleStore is the slice of the vehicle repository this service
// needs. *repository.VehicleRepository satisfies it.
type maintenanceVehicleStore interface {
	FindByPlate(plate string) (*models.Vehicle, error)
	UpdateServiceMilestone(plate string, lastServiceKm, nextServiceKm int, serviceDate time.Time) error
	UpdateKilometraje(plate string, currentKm int) error
}

type MaintenanceService struct {
	maintenanceRepo maintenanceStore
	vehicleRepo     maintenanceVehicleStore
}

func NewMaintenanceService(maintenanceRepo maintenanceStore, vehicleRepo maintenanceVehicleStore) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		vehicleRepo:     vehicleRepo,
	}
}

type CreateMaintenanceRequest struct {
	Plate       string  `json:"plate" validate:"required"`
	Fecha       string  `json:"fecha" validate:"required,datetime=2006-01-02"`
	Kilometraje int     `json:"kilometraje" validate:"gte=0"`
	Costo       float64 `json:"costo" validate:"gte=0"`
	Tipo        string  `json:"tipo" validate:"required,oneof=SERVICE REPAIR CHECKLIST RENTAL_FEE"`
	Descripcion string  `json:"descripcion,omitempty"`
	Proveedor   string  `json:"proveedor,omitempty"`
}

// CreateRecord stores a maintenance entry. A SERVICE entry also advances the
// vehicle's service milestone: the next service is scheduled one interval
// past the recorded odometer. Backfilled SERVICE entries with an odometer
// below existing history leave the milestone alone. Any entry with a higher
// odometer than the vehicle's also moves the current reading forward.
func (s *MaintenanceService) CreateRecord(req *CreateMaintenanceRequest) (*models.MaintenanceRecord, error) {
	vehicle, err := s.vehicleRepo.FindByPlate(req.Plate)
	if err != nil {
		return nil, err
	}

	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, errors.New("fecha must be a date in format 2006-01-02")
	}

	advanceMilestone := req.Tipo == models.MaintenanceTipoService
	if advanceMilestone {
		last, err := s.maintenanceRepo.LastByPlate(req.Plate)
		if err != nil && !errors.Is(err, repository.ErrMaintenanceNotFound) {
			return nil, err
		}
		if last != nil && last.Kilometraje > req.Kilometraje {
			advanceMilestone = false
		}
	}

	record := &models.MaintenanceRecord{
		VehiclePlate: vehicle.Plate,
		Fecha:        fecha,
		Kilometraje:  req.Kilometraje,
		Costo:        req.Costo,
		Tipo:         req.Tipo,
		Descripcion:  req.Descripcion,
		Proveedor:    req.Proveedor,
	}

	if err := s.maintenanceRepo.Create(record); err != nil {
		return nil, err
	}

	if advanceMilestone {
		nextServiceKm := req.Kilometraje + vehicle.EffectiveServiceIntervalKm()
		if err := s.vehicleRepo.UpdateServiceMilestone(vehicle.Plate, req.Kilometraje, nextServiceKm, fecha); err != nil {
			return nil, err
		}
	}

	if req.Kilometraje > vehicle.CurrentKm {
		if err := s.vehicleRepo.UpdateKilometraje(vehicle.Plate, req.Kilometraje); err != nil {
			return nil, err
		}
	}

	return record, nil
}

func (s *MaintenanceService) GetRecords(limit, offset int) ([]models.MaintenanceRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.maintenanceRepo.FindAll(limit, offset)
}

func (s *MaintenanceService) GetRecordsByPlate(plate string) ([]models.MaintenanceRecord, error) {
	if _, err := s.vehicleRepo.FindByPlate(plate); err != nil {
		return nil, err
	}
	return s.maintenanceRepo.FindByPlate(plate)
}

func (s *MaintenanceService) GetRecord(id string) (*models.MaintenanceRecord, error) {
	return s.maintenanceRepo.FindByID(id)
}

func (s *MaintenanceService) DeleteRecord(id string) error {
	return s.maintenanceRepo.Delete(id)
}
