package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type window struct {
	count int
	start time.Time
}

// MemoryLimiter keeps counters in process memory. It is the fallback when
// Redis is down and the backend for single-instance deployments and tests.
// Counters are per instance, so limits are effectively multiplied by the
// number of replicas while in fallback mode.
type MemoryLimiter struct {
	config  *Config
	windows map[string]*window
	mu      sync.Mutex

	totalRequests   int64
	blockedRequests int64
}

func NewMemoryLimiter(config *Config) *MemoryLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &MemoryLimiter{
		config:  config,
		windows: make(map[string]*window),
	}
	go l.cleanupLoop()
	return l
}

func (m *MemoryLimiter) Allow(clientID, category string) (bool, time.Duration, error) {
	if !m.config.Enabled {
		return true, 0, nil
	}
	atomic.AddInt64(&m.totalRequests, 1)

	limit := m.config.limit(category)
	key := fmt.Sprintf("%s:%s", category, clientID)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= limit.Window {
		w = &window{start: now}
		m.windows[key] = w
	}

	if w.count >= limit.Requests {
		atomic.AddInt64(&m.blockedRequests, 1)
		return false, limit.Window - now.Sub(w.start), nil
	}

	w.count++
	return true, 0, nil
}

func (m *MemoryLimiter) Limit(category string) Limit {
	return m.config.limit(category)
}

func (m *MemoryLimiter) Stats() Stats {
	return Stats{
		TotalRequests:   atomic.LoadInt64(&m.totalRequests),
		BlockedRequests: atomic.LoadInt64(&m.blockedRequests),
	}
}

func (m *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for key, w := range m.windows {
			if now.Sub(w.start) > time.Hour {
				delete(m.windows, key)
			}
		}
		m.mu.Unlock()
	}
}
