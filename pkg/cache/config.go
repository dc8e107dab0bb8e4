package cache

import "time"

// Config holds cache TTL values and key naming.
type Config struct {
	VehicleTTL    time.Duration `json:"vehicleTTL"`
	FleetListTTL  time.Duration `json:"fleetListTTL"`
	AlertsTTL     time.Duration `json:"alertsTTL"`
	CostReportTTL time.Duration `json:"costReportTTL"`
	KeyPrefix     string        `json:"keyPrefix"`
	TagPrefix     string        `json:"tagPrefix"`
}

// DefaultConfig returns the default cache configuration. Alert snapshots are
// short-lived because kilometrage updates must surface quickly.
func DefaultConfig() Config {
	return Config{
		VehicleTTL:    30 * time.Second,
		FleetListTTL:  2 * time.Minute,
		AlertsTTL:     1 * time.Minute,
		CostReportTTL: 10 * time.Minute,
		KeyPrefix:     "flota:",
		TagPrefix:     "tag:",
	}
}
