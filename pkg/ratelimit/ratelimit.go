package ratelimit

import "time"

// Limiter throttles requests per client and endpoint category.
type Limiter interface {
	// Allow reports whether the request may proceed. When blocked, the
	// duration says how long until the window resets.
	Allow(clientID, category string) (bool, time.Duration, error)
	Limit(category string) Limit
	Stats() Stats
}

// Limit caps requests per window for one endpoint category.
type Limit struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
}

// Stats provides counters about limiter activity.
type Stats struct {
	TotalRequests   int64 `json:"totalRequests"`
	BlockedRequests int64 `json:"blockedRequests"`
}

// Config holds the per-category limits.
type Config struct {
	Limits    map[string]Limit `json:"limits"`
	KeyPrefix string           `json:"keyPrefix"`
	Enabled   bool             `json:"enabled"`
}

// DefaultConfig returns the default limits. Login is throttled hard against
// credential stuffing; reads are generous because dashboards poll.
func DefaultConfig() *Config {
	return &Config{
		Limits: map[string]Limit{
			"auth_login": {Requests: 5, Window: time.Minute},
			"auth":       {Requests: 10, Window: time.Minute},
			"read":       {Requests: 120, Window: time.Minute},
			"write":      {Requests: 30, Window: time.Minute},
			"reports":    {Requests: 30, Window: time.Minute},
			"health":     {Requests: 600, Window: time.Minute},
			"default":    {Requests: 60, Window: time.Minute},
		},
		KeyPrefix: "ratelimit:",
		Enabled:   true,
	}
}

func (c *Config) limit(category string) Limit {
	if l, ok := c.Limits[category]; ok {
		return l
	}
	if l, ok := c.Limits["default"]; ok {
		return l
	}
	return Limit{Requests: 60, Window: time.Minute}
}
