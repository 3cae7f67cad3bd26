// Package proxy contains the request orchestrator: an http.Handler that
// validates the path-embedded target domain against the allowlist, derives a
// deterministic cache key, serves stored responses, and forwards misses to
// the real upstream, populating the store on success.
//
// Request flow:
//
//	inbound request
//	  -> domain validation (403 on no allowlist match, nothing else runs)
//	  -> key derivation
//	  -> store lookup (cacheable GETs only; lookup errors degrade to a miss)
//	  -> hit:  respond from the stored entry, X-Cache: HIT
//	  -> miss: forward upstream, store on 2xx, respond with X-Cache: MISS
//
// Non-cacheable requests on an allowed domain (non-GET, or a path outside the
// domain's cacheable prefixes) are pure pass-through: no store read, no store
// write, always X-Cache: MISS.
//
// The cache layer never fails a request: store errors on lookup fall through
// to forwarding, and store errors on write are logged while the forwarded
// response is still returned.
package proxy
