package nodestore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// cacheHits prometheus metric.
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of node hash reads served from cache",
			Name:      "cache_hits_total",
			Namespace: "utreexo",
			Subsystem: "nodestore",
		},
	)
	// cacheMisses prometheus metric.
	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of node hash reads that went to the storage",
			Name:      "cache_misses_total",
			Namespace: "utreexo",
			Subsystem: "nodestore",
		},
	)
	// writes prometheus metric.
	writes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of node hash records written or deleted",
			Name:      "writes_total",
			Namespace: "utreexo",
			Subsystem: "nodestore",
		},
	)
)

func init() {
	prometheus.MustRegister(
		cacheHits,
		cacheMisses,
		writes,
	)
}
