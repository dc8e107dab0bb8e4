package services

import (
	"errors"
	"flota-backend/internal/alerting"
	"flota-backend/internal/models"
	"flota-backend/internal/repository"
	"flota-backend/pkg/cache"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleService struct {
	vehicleRepo  *repository.VehicleRepository
	cacheManager cache.Manager
	cacheConfig  cache.Config
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		cacheConfig: cache.DefaultConfig(),
	}
}

// SetCacheManager enables read caching. The service works without one.
func (s *VehicleService) SetCacheManager(cacheManager cache.Manager) {
	s.cacheManager = cacheManager
}

// SetCacheConfig overrides the cache TTLs.
func (s *VehicleService) SetCacheConfig(config cache.Config) {
	s.cacheConfig = config
}

type CreateVehicleRequest struct {
	Plate             string `json:"plate" validate:"required,min=1,max=20"`
	Make              string `json:"make" validate:"required,min=1,max=60"`
	Model             string `json:"model" validate:"required,min=1,max=60"`
	Year              int    `json:"year,omitempty" validate:"omitempty,min=1950,max=2100"`
	VIN               string `json:"vin,omitempty"`
	Type              string `json:"type,omitempty"`
	Ownership         string `json:"ownership,omitempty" validate:"omitempty,oneof=OWNED RENTED LEASING"`
	Status            string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE MAINTENANCE INACTIVE"`
	CurrentKm         int    `json:"currentKm" validate:"gte=0"`
	ServiceIntervalKm int    `json:"serviceIntervalKm,omitempty" validate:"omitempty,gt=0"`
	NextServiceKm     int    `json:"nextServiceKm,omitempty" validate:"omitempty,gte=0"`
	CostCenter        string `json:"costCenter,omitempty"`
	Province          string `json:"province,omitempty"`
	AssignedUser      string `json:"assignedUser,omitempty"`
}

type UpdateVehicleRequest struct {
	Make              string `json:"make,omitempty"`
	Model             string `json:"model,omitempty"`
	Year              int    `json:"year,omitempty" validate:"omitempty,min=1950,max=2100"`
	VIN               string `json:"vin,omitempty"`
	Type              string `json:"type,omitempty"`
	Ownership         string `json:"ownership,omitempty" validate:"omitempty,oneof=OWNED RENTED LEASING"`
	Status            string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE MAINTENANCE INACTIVE"`
	ServiceIntervalKm int    `json:"serviceIntervalKm,omitempty" validate:"omitempty,gt=0"`
	NextServiceKm     int    `json:"nextServiceKm,omitempty" validate:"omitempty,gte=0"`
	CostCenter        string `json:"costCenter,omitempty"`
	Province          string `json:"province,omitempty"`
	AssignedUser      string `json:"assignedUser,omitempty"`
}

type UpdateKilometrajeRequest struct {
	CurrentKm int `json:"currentKm" validate:"gte=0"`
}

type AddDocumentRequest struct {
	Type           string `json:"type" validate:"required"`
	Name           string `json:"name,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Issuer         string `json:"issuer,omitempty"`
}

func (s *VehicleService) GetFleet() ([]models.Vehicle, error) {
	if s.cacheManager != nil {
		cached, err := s.cacheManager.GetFleet("all")
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			log.Printf("Cache error for GetFleet: %v", err)
		}
	}

	vehicles, err := s.vehicleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		if cacheErr := s.cacheManager.SetFleet("all", vehicles, s.cacheConfig.FleetListTTL); cacheErr != nil {
			log.Printf("Failed to cache fleet: %v", cacheErr)
		}
	}

	return vehicles, nil
}

func (s *VehicleService) GetVehicleByPlate(plate string) (*models.Vehicle, error) {
	if s.cacheManager != nil {
		cached, err := s.cacheManager.GetVehicle(plate)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			log.Printf("Cache error for GetVehicleByPlate(%s): %v", plate, err)
		}
	}

	vehicle, err := s.vehicleRepo.FindByPlate(plate)
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		if cacheErr := s.cacheManager.SetVehicle(plate, vehicle, s.cacheConfig.VehicleTTL); cacheErr != nil {
			log.Printf("Failed to cache vehicle %s: %v", plate, cacheErr)
		}
	}

	return vehicle, nil
}

func (s *VehicleService) GetVehiclesByStatus(status string) ([]models.Vehicle, error) {
	if s.cacheManager != nil {
		cacheKey := fmt.Sprintf("status_%s", status)
		cached, err := s.cacheManager.GetFleet(cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	vehicles, err := s.vehicleRepo.FindByStatus(status)
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		cacheKey := fmt.Sprintf("status_%s", status)
		if cacheErr := s.cacheManager.SetFleet(cacheKey, vehicles, s.cacheConfig.FleetListTTL); cacheErr != nil {
			log.Printf("Failed to cache vehicles by status %s: %v", status, cacheErr)
		}
	}

	return vehicles, nil
}

func (s *VehicleService) GetVehiclesByCostCenter(costCenter string) ([]models.Vehicle, error) {
	return s.vehicleRepo.FindByCostCenter(costCenter)
}

func (s *VehicleService) CreateVehicle(req *CreateVehicleRequest) (*models.Vehicle, error) {
	existing, _ := s.vehicleRepo.FindByPlate(req.Plate)
	if existing != nil {
		return nil, errors.New("plate already registered")
	}

	status := req.Status
	if status == "" {
		status = models.VehicleStatusActive
	}

	vehicle := &models.Vehicle{
		ID:                primitive.NewObjectID(),
		Plate:             req.Plate,
		Make:              req.Make,
		Model:             req.Model,
		Year:              req.Year,
		VIN:               req.VIN,
		Type:              req.Type,
		Ownership:         req.Ownership,
		Status:            status,
		CurrentKm:         req.CurrentKm,
		LastServiceKm:     req.CurrentKm,
		ServiceIntervalKm: req.ServiceIntervalKm,
		NextServiceKm:     req.NextServiceKm,
		CostCenter:        req.CostCenter,
		Province:          req.Province,
		AssignedUser:      req.AssignedUser,
		Documents:         []models.Document{},
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	// A vehicle created without a service milestone gets one scheduled a
	// full interval ahead of the current odometer.
	if vehicle.NextServiceKm == 0 {
		vehicle.NextServiceKm = vehicle.CurrentKm + vehicle.EffectiveServiceIntervalKm()
	}

	created, err := s.vehicleRepo.Create(vehicle)
	if err != nil {
		return nil, err
	}

	s.invalidateVehicle(created.Plate)

	return created, nil
}

func (s *VehicleService) UpdateVehicle(plate string, req *UpdateVehicleRequest) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByPlate(plate)
	if err != nil {
		return nil, err
	}

	if req.Make != "" {
		vehicle.Make = req.Make
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year > 0 {
		vehicle.Year = req.Year
	}
	if req.VIN != "" {
		vehicle.VIN = req.VIN
	}
	if req.Type != "" {
		vehicle.Type = req.Type
	}
	if req.Ownership != "" {
		vehicle.Ownership = req.Ownership
	}
	if req.Status != "" {
		vehicle.Status = req.Status
	}
	if req.ServiceIntervalKm > 0 {
		vehicle.ServiceIntervalKm = req.ServiceIntervalKm
	}
	if req.NextServiceKm > 0 {
		vehicle.NextServiceKm = req.NextServiceKm
	}
	if req.CostCenter != "" {
		vehicle.CostCenter = req.CostCenter
	}
	if req.Province != "" {
		vehicle.Province = req.Province
	}
	if req.AssignedUser != "" {
		vehicle.AssignedUser = req.AssignedUser
	}

	vehicle.UpdatedAt = time.Now()

	updated, err := s.vehicleRepo.Update(plate, vehicle)
	if err != nil {
		return nil, err
	}

	s.invalidateVehicle(plate)

	return updated, nil
}

// UpdateKilometraje records a new odometer reading. Readings lower than the
// stored one are rejected to keep the service projection monotonic.
func (s *VehicleService) UpdateKilometraje(plate string, req *UpdateKilometrajeRequest) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByPlate(plate)
	if err != nil {
		return nil, err
	}

	if req.CurrentKm < vehicle.CurrentKm {
		return nil, errors.New("kilometraje cannot decrease")
	}

	if err := s.vehicleRepo.UpdateKilometraje(plate, req.CurrentKm); err != nil {
		return nil, err
	}

	s.invalidateVehicle(plate)

	return s.vehicleRepo.FindByPlate(plate)
}

func (s *VehicleService) AddDocument(plate string, req *AddDocumentRequest) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByPlate(plate)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		ID:             uuid.NewString(),
		Type:           req.Type,
		Name:           req.Name,
		ExpirationDate: req.ExpirationDate,
		Issuer:         req.Issuer,
		UploadedAt:     time.Now(),
	}

	documents := append(vehicle.Documents, doc)
	if err := s.vehicleRepo.SetDocuments(plate, documents); err != nil {
		return nil, err
	}

	s.invalidateVehicle(plate)

	return s.vehicleRepo.FindByPlate(plate)
}

func (s *VehicleService) RemoveDocument(plate, documentID string) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByPlate(plate)
	if err != nil {
		return nil, err
	}

	documents := make([]models.Document, 0, len(vehicle.Documents))
	found := false
	for _, d := range vehicle.Documents {
		if d.ID == documentID {
			found = true
			continue
		}
		documents = append(documents, d)
	}

	if !found {
		return nil, errors.New("document not found")
	}

	if err := s.vehicleRepo.SetDocuments(plate, documents); err != nil {
		return nil, err
	}

	s.invalidateVehicle(plate)

	return s.vehicleRepo.FindByPlate(plate)
}

func (s *VehicleService) DeleteVehicle(plate string) error {
	if _, err := s.vehicleRepo.FindByPlate(plate); err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(plate); err != nil {
		return err
	}

	s.invalidateVehicle(plate)

	return nil
}

// GetVigencia computes the useful-life projection for a vehicle. lifeYears
// at zero uses the age-based suggestion.
func (s *VehicleService) GetVigencia(plate string, lifeYears int) (*alerting.Vigencia, error) {
	vehicle, err := s.vehicleRepo.FindByPlate(plate)
	if err != nil {
		return nil, err
	}

	if vehicle.Year <= 0 {
		return nil, errors.New("vehicle has no fabrication year")
	}

	v := alerting.CalcularVigencia(vehicle.Year, lifeYears, time.Now())
	return &v, nil
}

func (s *VehicleService) invalidateVehicle(plate string) {
	if s.cacheManager == nil {
		return
	}
	if err := s.cacheManager.InvalidateVehicle(plate); err != nil {
		log.Printf("Failed to invalidate cache for vehicle %s: %v", plate, err)
	}
	if err := s.cacheManager.InvalidateFleetLists(); err != nil {
		log.Printf("Failed to invalidate fleet caches: %v", err)
	}
}
