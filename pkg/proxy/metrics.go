package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rateproxy_requests_total",
		Help: "Total proxied requests by domain and cache status",
	}, []string{"domain", "cache_status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rateproxy_request_duration_seconds",
		Help:    "Proxied request duration in seconds by domain",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"domain"})

	forbiddenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rateproxy_forbidden_requests_total",
		Help: "Total requests rejected for a domain not on the allowlist",
	})

	upstreamFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rateproxy_upstream_failures_total",
		Help: "Total forwarded requests that failed at the transport level",
	})
)
