package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "ifoodadmin"
)

var (
	LifecycleState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "lifecycle", "state"),
		Help: "Current bootstrap state: 0 not started, 1 starting, 2 running, 3 stopping, 4 stopped",
	})
	StartupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "lifecycle", "startup_duration_seconds"),
		Help:    "Duration of the startup sequence in seconds, by outcome",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"outcome"})
	StartupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "lifecycle", "startup_failures_total"),
		Help: "Startup failures by error kind",
	}, []string{"kind"})
	MappersBound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "repo", "mappers_bound"),
		Help: "Number of mappers bound to the database at startup",
	})
)
