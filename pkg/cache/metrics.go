package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by namespace
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"namespace"}, // "catalog", "categories", "locations"
	)

	// CacheMisses tracks cache misses by namespace
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"namespace"},
	)

	// CacheInvalidations tracks keys deleted by pattern invalidation
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_cache_invalidated_keys_total",
			Help: "Total number of cache keys deleted by invalidation",
		},
		[]string{"namespace"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "decode", "set", "invalidate"
	)
)
