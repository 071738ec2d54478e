package gridsense

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Context cache metrics.
var (
	contextCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsense_context_cache_hits_total",
		Help: "Context requests served from the cache",
	})

	contextCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsense_context_cache_misses_total",
		Help: "Context requests that required a rebuild",
	})

	contextInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridsense_context_invalidations_total",
		Help: "Explicit cache invalidations, mutations included",
	})

	contextRebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsense_context_rebuild_duration_seconds",
		Help:    "Time to snapshot and analyze a sheet",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	})

	tablesPerRebuild = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsense_tables_detected",
		Help:    "Tables detected per rebuild",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
	})
)
