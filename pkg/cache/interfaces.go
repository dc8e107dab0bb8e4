package cache

import (
	"time"

	"flota-backend/internal/models"
)

// Manager defines the caching operations used by the service layer.
type Manager interface {
	// Vehicle operations, keyed by plate
	GetVehicle(plate string) (*models.Vehicle, error)
	SetVehicle(plate string, vehicle *models.Vehicle, ttl time.Duration) error
	InvalidateVehicle(plate string) error

	// Fleet list operations
	GetFleet(key string) ([]models.Vehicle, error)
	SetFleet(key string, vehicles []models.Vehicle, ttl time.Duration) error
	InvalidateFleetLists() error

	// Alert snapshot operations
	GetAlerts(key string) ([]models.Alert, error)
	SetAlerts(key string, alerts []models.Alert, ttl time.Duration) error

	// Generic operations
	Get(key string, dest interface{}) (bool, error)
	Set(key string, value interface{}, ttl time.Duration) error
	Delete(key string) error

	// Tag operations for grouped invalidation
	TagKey(key string, tags ...string) error
	InvalidateByTag(tag string) error

	// Statistics and health
	Stats() Stats
	HealthCheck() error
	Close() error
}

// Stats provides cache performance metrics.
type Stats struct {
	HitRate       float64 `json:"hitRate"`
	MissRate      float64 `json:"missRate"`
	MemoryUsage   int64   `json:"memoryUsage"`
	KeyCount      int     `json:"keyCount"`
	EvictionCount int     `json:"evictionCount"`
	TotalHits     int64   `json:"totalHits"`
	TotalMisses   int64   `json:"totalMisses"`
}
