package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flota-backend/internal/models"
	"flota-backend/internal/repository"
)

type fakeMaintenanceStore struct {
	records []models.MaintenanceRecord
	created []*models.MaintenanceRecord
}

func (f *fakeMaintenanceStore) Create(record *models.MaintenanceRecord) error {
	f.created = append(f.created, record)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeMaintenanceStore) FindByID(id string) (*models.MaintenanceRecord, error) {
	return nil, repository.ErrMaintenanceNotFound
}

func (f *fakeMaintenanceStore) FindByPlate(plate string) ([]models.MaintenanceRecord, error) {
	out := []models.MaintenanceRecord{}
	for _, r := range f.records {
		if r.VehiclePlate == plate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMaintenanceStore) FindAll(limit, offset int) ([]models.MaintenanceRecord, error) {
	return f.records, nil
}

func (f *fakeMaintenanceStore) LastByPlate(plate string) (*models.MaintenanceRecord, error) {
	var last *models.MaintenanceRecord
	for i := range f.records {
		r := &f.records[i]
		if r.VehiclePlate != plate {
			continue
		}
		if last == nil || r.Kilometraje > last.Kilometraje {
			last = r
		}
	}
	if last == nil {
		return nil, repository.ErrMaintenanceNotFound
	}
	return last, nil
}

func (f *fakeMaintenanceStore) Delete(id string) error { return nil }

type fakeVehicleStore struct {
	vehicle *models.Vehicle

	milestonePlate  string
	milestoneLastKm int
	milestoneNextKm int
	milestoneDate   time.Time
	milestoneCalls  int

	kmPlate string
	km      int
	kmCalls int
}

func (f *fakeVehicleStore) FindByPlate(plate string) (*models.Vehicle, error) {
	if f.vehicle == nil || f.vehicle.Plate != plate {
		return nil, repository.ErrVehicleNotFound
	}
	v := *f.vehicle
	return &v, nil
}

func (f *fakeVehicleStore) UpdateServiceMilestone(plate string, lastServiceKm, nextServiceKm int, serviceDate time.Time) error {
	f.milestonePlate = plate
	f.milestoneLastKm = lastServiceKm
	f.milestoneNextKm = nextServiceKm
	f.milestoneDate = serviceDate
	f.milestoneCalls++
	return nil
}

func (f *fakeVehicleStore) UpdateKilometraje(plate string, currentKm int) error {
	f.kmPlate = plate
	f.km = currentKm
	f.kmCalls++
	return nil
}

func serviceRequest(km int) *CreateMaintenanceRequest {
	return &CreateMaintenanceRequest{
		Plate:       "AA111BB",
		Fecha:       "2026-03-10",
		Kilometraje: km,
		Costo:       150000,
		Tipo:        models.MaintenanceTipoService,
	}
}

func TestCreateRecordServiceAdvancesMilestone(t *testing.T) {
	vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{
		Plate:             "AA111BB",
		CurrentKm:         48000,
		ServiceIntervalKm: 15000,
		NextServiceKm:     50000,
	}}
	store := &fakeMaintenanceStore{}
	service := NewMaintenanceService(store, vehicles)

	record, err := service.CreateRecord(serviceRequest(49500))
	require.NoError(t, err)
	assert.Equal(t, "AA111BB", record.VehiclePlate)

	require.Equal(t, 1, vehicles.milestoneCalls)
	assert.Equal(t, "AA111BB", vehicles.milestonePlate)
	assert.Equal(t, 49500, vehicles.milestoneLastKm)
	assert.Equal(t, 64500, vehicles.milestoneNextKm, "next service sits one interval past the recorded odometer")
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), vehicles.milestoneDate)
}

func TestCreateRecordServiceDefaultsInterval(t *testing.T) {
	for _, interval := range []int{0, -5000} {
		vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{
			Plate:             "AA111BB",
			CurrentKm:         48000,
			ServiceIntervalKm: interval,
		}}
		service := NewMaintenanceService(&fakeMaintenanceStore{}, vehicles)

		_, err := service.CreateRecord(serviceRequest(50000))
		require.NoError(t, err)

		require.Equal(t, 1, vehicles.milestoneCalls, "interval %d", interval)
		assert.Equal(t, 50000+models.DefaultServiceIntervalKm, vehicles.milestoneNextKm, "interval %d", interval)
	}
}

func TestCreateRecordNonServiceLeavesMilestone(t *testing.T) {
	vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{
		Plate:             "AA111BB",
		CurrentKm:         48000,
		ServiceIntervalKm: 15000,
	}}
	store := &fakeMaintenanceStore{}
	service := NewMaintenanceService(store, vehicles)

	req := serviceRequest(49000)
	req.Tipo = models.MaintenanceTipoRepair

	_, err := service.CreateRecord(req)
	require.NoError(t, err)

	assert.Zero(t, vehicles.milestoneCalls)
	require.Len(t, store.created, 1)
}

func TestCreateRecordBackfilledServiceLeavesMilestone(t *testing.T) {
	vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{
		Plate:             "AA111BB",
		CurrentKm:         60000,
		ServiceIntervalKm: 15000,
		NextServiceKm:     65000,
	}}
	store := &fakeMaintenanceStore{records: []models.MaintenanceRecord{
		{VehiclePlate: "AA111BB", Kilometraje: 50000, Tipo: models.MaintenanceTipoService},
	}}
	service := NewMaintenanceService(store, vehicles)

	// Historical entry below existing history must not roll the milestone back.
	_, err := service.CreateRecord(serviceRequest(35000))
	require.NoError(t, err)

	assert.Zero(t, vehicles.milestoneCalls)
	require.Len(t, store.created, 1)
}

func TestCreateRecordFastForwardsOdometer(t *testing.T) {
	vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{
		Plate:             "AA111BB",
		CurrentKm:         48000,
		ServiceIntervalKm: 15000,
	}}
	service := NewMaintenanceService(&fakeMaintenanceStore{}, vehicles)

	req := serviceRequest(52000)
	req.Tipo = models.MaintenanceTipoChecklist

	_, err := service.CreateRecord(req)
	require.NoError(t, err)

	require.Equal(t, 1, vehicles.kmCalls)
	assert.Equal(t, 52000, vehicles.km)
}

func TestCreateRecordKeepsLowerOdometer(t *testing.T) {
	vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{
		Plate:             "AA111BB",
		CurrentKm:         48000,
		ServiceIntervalKm: 15000,
	}}
	service := NewMaintenanceService(&fakeMaintenanceStore{}, vehicles)

	req := serviceRequest(40000)
	req.Tipo = models.MaintenanceTipoRepair

	_, err := service.CreateRecord(req)
	require.NoError(t, err)

	assert.Zero(t, vehicles.kmCalls, "lower readings never move the odometer back")
}

func TestCreateRecordUnknownVehicle(t *testing.T) {
	service := NewMaintenanceService(&fakeMaintenanceStore{}, &fakeVehicleStore{})

	_, err := service.CreateRecord(serviceRequest(50000))
	assert.ErrorIs(t, err, repository.ErrVehicleNotFound)
}

func TestCreateRecordRejectsBadFecha(t *testing.T) {
	vehicles := &fakeVehicleStore{vehicle: &models.Vehicle{Plate: "AA111BB"}}
	service := NewMaintenanceService(&fakeMaintenanceStore{}, vehicles)

	req := serviceRequest(50000)
	req.Fecha = "10/03/2026"

	_, err := service.CreateRecord(req)
	assert.EqualError(t, err, "fecha must be a date in format 2006-01-02")
}
