package services

import (
	"errors"
	"log"
	"sort"
	"time"

	"flota-backend/internal/models"
	"flota-backend/internal/repository"
	"flota-backend/pkg/cache"
)

const topSpendersLimit = 5

type ReportService struct {
	maintenanceRepo *repository.MaintenanceRepository
	cacheManager    cache.Manager
	cacheConfig     cache.Config
}

func NewReportService(maintenanceRepo *repository.MaintenanceRepository) *ReportService {
	return &ReportService{
		maintenanceRepo: maintenanceRepo,
		cacheConfig:     cache.DefaultConfig(),
	}
}

// SetCacheManager enables report caching. The service works without one.
func (s *ReportService) SetCacheManager(cacheManager cache.Manager) {
	s.cacheManager = cacheManager
}

// GetCostReport aggregates maintenance spending, optionally bounded by an
// inclusive date range in 2006-01-02 format.
func (s *ReportService) GetCostReport(fromStr, toStr string) (*models.CostReport, error) {
	cacheKey := "costs:" + fromStr + ":" + toStr

	if s.cacheManager != nil {
		var cached models.CostReport
		found, err := s.cacheManager.Get(cacheKey, &cached)
		if err == nil && found {
			return &cached, nil
		}
		if err != nil {
			log.Printf("Cache error for GetCostReport: %v", err)
		}
	}

	records, err := s.loadRecords(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	report := buildCostReport(records)

	if s.cacheManager != nil {
		if cacheErr := s.cacheManager.Set(cacheKey, report, s.cacheConfig.CostReportTTL); cacheErr != nil {
			log.Printf("Failed to cache cost report: %v", cacheErr)
		}
	}

	return report, nil
}

func (s *ReportService) loadRecords(fromStr, toStr string) ([]models.MaintenanceRecord, error) {
	if fromStr == "" && toStr == "" {
		return s.maintenanceRepo.FindAll(0, 0)
	}

	from := time.Time{}
	to := time.Now()

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, errors.New("from must be a date in format 2006-01-02")
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, errors.New("to must be a date in format 2006-01-02")
		}
		// inclusive upper bound
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if from.After(to) {
		return nil, errors.New("from must not be after to")
	}

	return s.maintenanceRepo.FindByDateRange(from, to)
}

func buildCostReport(records []models.MaintenanceRecord) *models.CostReport {
	report := &models.CostReport{
		ByPlate:     make(map[string]float64),
		ByTipo:      make(map[string]float64),
		TopSpenders: []models.PlateCost{},
	}

	for _, r := range records {
		report.Total += r.Costo
		report.ByPlate[r.VehiclePlate] += r.Costo
		report.ByTipo[r.Tipo] += r.Costo
	}

	if len(report.ByPlate) > 0 {
		report.AvgPerVehicle = report.Total / float64(len(report.ByPlate))
	}

	spenders := make([]models.PlateCost, 0, len(report.ByPlate))
	for plate, cost := range report.ByPlate {
		spenders = append(spenders, models.PlateCost{Plate: plate, Cost: cost})
	}
	sort.Slice(spenders, func(i, j int) bool {
		if spenders[i].Cost != spenders[j].Cost {
			return spenders[i].Cost > spenders[j].Cost
		}
		return spenders[i].Plate < spenders[j].Plate
	})
	if len(spenders) > topSpendersLimit {
		spenders = spenders[:topSpendersLimit]
	}
	report.TopSpenders = spenders

	return report
}
