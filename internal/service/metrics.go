package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "combicalc_operations_total",
		Help: "Total number of engine operations served, by operation and status",
	}, []string{"op", "status"})
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "combicalc_operation_duration_seconds",
		Help:    "Duration of engine operations in seconds",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"op"})
)
