package orchestration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sweepCombinationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "combicalc_sweep_combinations_total",
		Help: "Total number of combinations emitted by sweep workers.",
	})

	sweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "combicalc_sweep_duration_seconds",
		Help:    "Duration of complete sweeps.",
		Buckets: prometheus.ExponentialBuckets(1e-4, 4, 12),
	}, []string{"status"})
)
