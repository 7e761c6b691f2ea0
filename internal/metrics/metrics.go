// Package metrics registers the Prometheus collectors for the scan pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketscout_cycles_total", Help: "Scan cycles by outcome"},
		[]string{"outcome"}, // "scanned", "closed", "failed"
	)
	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marketscout_cycle_duration_seconds",
			Help:    "Duration of a full scan cycle",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	SignalsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketscout_signals_accepted_total", Help: "Accepted signals by symbol"},
		[]string{"symbol"},
	)
	InstrumentsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "marketscout_instruments_skipped_total", Help: "Skipped instruments by reason"},
		[]string{"reason"}, // "data_unavailable", "invalid_arithmetic", "below_threshold", "cooldown", "append_error"
	)
	NotifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "marketscout_notify_failures_total", Help: "Discarded notification failures"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, CycleDuration, SignalsAccepted, InstrumentsSkipped, NotifyFailures)
}
