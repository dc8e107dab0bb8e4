package services

import (
	"log"
	"time"

	"flota-backend/internal/alerting"
	"flota-backend/internal/models"
	"flota-backend/internal/repository"
	"flota-backend/pkg/cache"
	"flota-backend/pkg/metrics"
	"flota-backend/pkg/notify"
)

const alertSnapshotKey = "snapshot"

// AlertService computes maintenance and document alerts over the live fleet.
// Alerts are derived on demand and never persisted; the cache only shortens
// the window between odometer updates and dashboard reads.
type AlertService struct {
	vehicleRepo  *repository.VehicleRepository
	userRepo     *repository.UserRepository
	evaluator    *alerting.Evaluator
	digests      *notify.DigestBuilder
	cacheManager cache.Manager
	cacheConfig  cache.Config
	metrics      *metrics.AlertMetrics
}

func NewAlertService(vehicleRepo *repository.VehicleRepository, userRepo *repository.UserRepository, evaluator *alerting.Evaluator) *AlertService {
	return &AlertService{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		evaluator:   evaluator,
		digests:     notify.NewDigestBuilder(),
		cacheConfig: cache.DefaultConfig(),
	}
}

// SetCacheManager enables snapshot caching. The service works without one.
func (s *AlertService) SetCacheManager(cacheManager cache.Manager) {
	s.cacheManager = cacheManager
}

// SetMetrics wires the Prometheus instruments.
func (s *AlertService) SetMetrics(m *metrics.AlertMetrics) {
	s.metrics = m
}

// GetAlerts returns the current alert set, optionally filtered by severity
// and plate. A fresh cached snapshot is served when available.
func (s *AlertService) GetAlerts(severity, plate string) ([]models.Alert, error) {
	var alerts []models.Alert

	if s.cacheManager != nil {
		cached, err := s.cacheManager.GetAlerts(alertSnapshotKey)
		if err == nil && cached != nil {
			alerts = cached
		} else if err != nil {
			log.Printf("Cache error for GetAlerts: %v", err)
		}
	}

	if alerts == nil {
		fresh, err := s.evaluate(time.Now())
		if err != nil {
			return nil, err
		}
		alerts = fresh
	}

	return filterAlerts(alerts, severity, plate), nil
}

// Refresh re-evaluates the whole fleet, stores the snapshot and updates the
// exported gauges. It reports the number of active alerts.
func (s *AlertService) Refresh() (int, error) {
	alerts, err := s.evaluate(time.Now())
	if err != nil {
		return 0, err
	}
	return len(alerts), nil
}

// GetDigests renders the WhatsApp digest preview for every alert recipient.
func (s *AlertService) GetDigests() ([]notify.Digest, error) {
	recipients, err := s.userRepo.FindAlertRecipients()
	if err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	digests := s.digests.Build(recipients, vehicles, time.Now())

	if s.metrics != nil {
		s.metrics.DigestsSent.Add(float64(len(digests)))
	}

	return digests, nil
}

func (s *AlertService) evaluate(asOf time.Time) ([]models.Alert, error) {
	start := time.Now()

	vehicles, err := s.vehicleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	alerts := s.evaluator.Evaluate(vehicles, asOf)

	if s.metrics != nil {
		s.metrics.EvaluationsTotal.Inc()
		s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
		s.metrics.VehiclesEvaluated.Set(float64(len(vehicles)))
		s.updateAlertGauges(alerts)
	}

	if s.cacheManager != nil {
		if cacheErr := s.cacheManager.SetAlerts(alertSnapshotKey, alerts, s.cacheConfig.AlertsTTL); cacheErr != nil {
			log.Printf("Failed to cache alert snapshot: %v", cacheErr)
		}
	}

	return alerts, nil
}

func (s *AlertService) updateAlertGauges(alerts []models.Alert) {
	counts := make(map[[2]string]int)
	for _, a := range alerts {
		counts[[2]string{a.Kind, a.Severity}]++
	}

	for _, kind := range []string{models.AlertKindService, models.AlertKindDocument} {
		for _, severity := range []string{models.SeverityAlta, models.SeverityMedia} {
			s.metrics.ActiveAlerts.WithLabelValues(kind, severity).Set(float64(counts[[2]string{kind, severity}]))
		}
	}
}

func filterAlerts(alerts []models.Alert, severity, plate string) []models.Alert {
	if severity == "" && plate == "" {
		return alerts
	}

	filtered := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if severity != "" && a.Severity != severity {
			continue
		}
		if plate != "" && a.Plate != plate {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}
