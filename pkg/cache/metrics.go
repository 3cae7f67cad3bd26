package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks cache hits.
	Hits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rateproxy_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// Misses tracks cache misses.
	Misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rateproxy_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// storeErrors tracks store operation errors.
	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rateproxy_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "put"
	)
)
