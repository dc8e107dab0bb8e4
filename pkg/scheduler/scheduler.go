package scheduler

import (
	"log"
	"time"
)

// RefreshFunc runs one alert evaluation pass and reports how many alerts it
// produced.
type RefreshFunc func() (int, error)

// AlertRefresher periodically re-evaluates the fleet so the cached alert
// snapshot and the exported gauges stay warm between API requests.
type AlertRefresher struct {
	refresh  RefreshFunc
	interval time.Duration
	stopChan chan bool
}

func NewAlertRefresher(refresh RefreshFunc, interval time.Duration) *AlertRefresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &AlertRefresher{
		refresh:  refresh,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start runs the refresh loop until Stop is called. The first pass runs
// immediately so the snapshot is available as soon as the server is up.
func (s *AlertRefresher) Start() {
	log.Printf("Starting alert refresh loop (interval: %v)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stopChan:
			log.Println("Stopping alert refresh loop")
			return
		}
	}
}

// Stop stops the refresh loop.
func (s *AlertRefresher) Stop() {
	s.stopChan <- true
}

func (s *AlertRefresher) runOnce() {
	count, err := s.refresh()
	if err != nil {
		log.Printf("Error refreshing fleet alerts: %v", err)
		return
	}

	if count > 0 {
		log.Printf("Fleet alert refresh produced %d active alerts", count)
	}
}
