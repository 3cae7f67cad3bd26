// Package metrics provides the central Prometheus registry reference for the
// rate proxy. All metrics are defined in their respective packages (proxy,
// cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the proxy.
// All metrics are automatically registered via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the matching gatherer served on /metrics.
var Gatherer = prometheus.DefaultGatherer

// Metrics Documentation
//
// Proxy Metrics (pkg/proxy):
//   - rateproxy_requests_total{domain, cache_status} (Counter): Proxied requests
//     by domain and cache status (hit, miss, error)
//   - rateproxy_request_duration_seconds{domain} (Histogram): Request duration
//   - rateproxy_forbidden_requests_total (Counter): Rejected disallowed domains
//   - rateproxy_upstream_failures_total (Counter): Transport-level upstream failures
//
// Cache Metrics (pkg/cache):
//   - rateproxy_cache_hits_total (Counter): Cache hits
//   - rateproxy_cache_misses_total (Counter): Cache misses
//   - rateproxy_cache_errors_total{operation} (Counter): Store operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(rateproxy_cache_hits_total[5m]) /
//   (rate(rateproxy_cache_hits_total[5m]) + rate(rateproxy_cache_misses_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(rateproxy_request_duration_seconds_bucket[5m]))
//
//   # Rejection Rate
//   rate(rateproxy_forbidden_requests_total[5m])
