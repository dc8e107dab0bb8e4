package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AlertMetrics holds the Prometheus metrics for the alerting engine.
type AlertMetrics struct {
	EvaluationsTotal   prometheus.Counter
	EvaluationDuration prometheus.Histogram
	ActiveAlerts       *prometheus.GaugeVec
	VehiclesEvaluated  prometheus.Gauge
	DigestsSent        prometheus.Counter
}

// NewAlertMetrics initializes and registers the Prometheus metrics.
func NewAlertMetrics() *AlertMetrics {
	return &AlertMetrics{
		EvaluationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "flota",
			Subsystem: "alerting",
			Name:      "evaluations_total",
			Help:      "Total number of fleet alert evaluations.",
		}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flota",
			Subsystem: "alerting",
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating the fleet for alerts.",
			Buckets:   prometheus.DefBuckets,
		}),
		ActiveAlerts: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flota",
			Subsystem: "alerting",
			Name:      "active_alerts",
			Help:      "Number of active alerts from the last evaluation by kind and severity.",
		}, []string{"kind", "severity"}),
		VehiclesEvaluated: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "flota",
			Subsystem: "alerting",
			Name:      "vehicles_evaluated",
			Help:      "Number of vehicles covered by the last evaluation.",
		}),
		DigestsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "flota",
			Subsystem: "notify",
			Name:      "digests_built_total",
			Help:      "Total number of alert digests built for notification recipients.",
		}),
	}
}
