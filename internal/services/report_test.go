package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flota-backend/internal/models"
)

func record(plate, tipo string, costo float64) models.MaintenanceRecord {
	return models.MaintenanceRecord{VehiclePlate: plate, Tipo: tipo, Costo: costo}
}

func TestBuildCostReportAggregates(t *testing.T) {
	records := []models.MaintenanceRecord{
		record("AA111BB", models.MaintenanceTipoService, 100),
		record("AA111BB", models.MaintenanceTipoRepair, 50),
		record("CC222DD", models.MaintenanceTipoService, 200),
	}

	report := buildCostReport(records)

	assert.Equal(t, 350.0, report.Total)
	assert.Equal(t, 150.0, report.ByPlate["AA111BB"])
	assert.Equal(t, 200.0, report.ByPlate["CC222DD"])
	assert.Equal(t, 300.0, report.ByTipo[models.MaintenanceTipoService])
	assert.Equal(t, 50.0, report.ByTipo[models.MaintenanceTipoRepair])
	assert.Equal(t, 175.0, report.AvgPerVehicle)
}

func TestBuildCostReportTopSpenders(t *testing.T) {
	records := []models.MaintenanceRecord{
		record("P1", models.MaintenanceTipoService, 10),
		record("P2", models.MaintenanceTipoService, 60),
		record("P3", models.MaintenanceTipoService, 30),
		record("P4", models.MaintenanceTipoService, 40),
		record("P5", models.MaintenanceTipoService, 50),
		record("P6", models.MaintenanceTipoService, 20),
		record("P7", models.MaintenanceTipoService, 60),
	}

	report := buildCostReport(records)

	require.Len(t, report.TopSpenders, 5)
	// Ties break alphabetically by plate.
	assert.Equal(t, "P2", report.TopSpenders[0].Plate)
	assert.Equal(t, "P7", report.TopSpenders[1].Plate)
	assert.Equal(t, "P5", report.TopSpenders[2].Plate)
	assert.Equal(t, "P4", report.TopSpenders[3].Plate)
	assert.Equal(t, "P3", report.TopSpenders[4].Plate)
}

func TestBuildCostReportEmpty(t *testing.T) {
	report := buildCostReport(nil)

	assert.Zero(t, report.Total)
	assert.Zero(t, report.AvgPerVehicle)
	assert.Empty(t, report.TopSpenders)
	assert.Empty(t, report.ByPlate)
}

func TestGetCostReportRejectsBadDates(t *testing.T) {
	service := NewReportService(nil)

	_, err := service.GetCostReport("not-a-date", "")
	assert.EqualError(t, err, "from must be a date in format 2006-01-02")

	_, err = service.GetCostReport("", "31/12/2025")
	assert.EqualError(t, err, "to must be a date in format 2006-01-02")

	_, err = service.GetCostReport("2026-02-01", "2026-01-01")
	assert.EqualError(t, err, "from must not be after to")
}
