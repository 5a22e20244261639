package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Refresh outcomes used as the "outcome" label.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeEmpty     = "empty"
	outcomeError     = "error"
)

// Metrics groups the Prometheus collectors of the refresh pipeline.
type Metrics struct {
	refreshes    *prometheus.CounterVec
	duration     prometheus.Histogram
	lastSuccess  prometheus.Gauge
	observations prometheus.Gauge
	price        *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "naftapulse",
			Name:      "refreshes_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "naftapulse",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of refresh cycles (fetch, parse, compute).",
			Buckets:   prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "naftapulse",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		observations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "naftapulse",
			Name:      "observations",
			Help:      "Observations in the last successful refresh.",
		}),
		price: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "naftapulse",
			Name:      "current_price",
			Help:      "Latest observed price.",
		}, []string{"vendor", "currency"}),
	}

	reg.MustRegister(m.refreshes, m.duration, m.lastSuccess, m.observations, m.price)
	return m
}
