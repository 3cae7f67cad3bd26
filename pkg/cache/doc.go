// Package cache provides the response cache for the rate proxy: deterministic
// key derivation and a key-value Store abstraction with Redis and in-memory
// backends.
//
// Keys are derived from the target domain, the remaining request path, and the
// query parameters serialized in canonical order, then hashed with SHA-256.
// Two requests that differ only in query parameter ordering always map to the
// same key, across process restarts.
//
// Entries are write-once and carry no TTL: the first successful upstream
// response for a key is stored verbatim (status, headers, body) and every
// later request with the same key is served from the store. Entries disappear
// only through external deletion.
//
// # Basic Usage
//
//	store := cache.NewRedisStore(redisClient, 2*time.Second)
//
//	key := cache.Key{
//		Domain: "openexchangerates.org",
//		Path:   "api/historical/2025-01-01.json",
//		Query:  url.Values{"base": []string{"USD"}},
//	}
//
//	entry, err := store.Get(ctx, key.Digest())
//	if errors.Is(err, cache.ErrNotFound) {
//		// miss - forward upstream, then Put
//	}
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - rateproxy_cache_hits_total - Store hits
//   - rateproxy_cache_misses_total - Store misses
//   - rateproxy_cache_errors_total{operation} - Store operation errors
package cache
