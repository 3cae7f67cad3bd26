package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/marketrates/rate-proxy/pkg/cache"
	"github.com/marketrates/rate-proxy/pkg/config"
	"github.com/marketrates/rate-proxy/pkg/logging"
	"github.com/marketrates/rate-proxy/pkg/upstream"
	"github.com/rs/zerolog"
)

const (
	// CacheStatusHeader is the single header the proxy adds to every
	// proxied response.
	CacheStatusHeader = "X-Cache"

	// CacheHit marks a response served from the store.
	CacheHit = "HIT"

	// CacheMiss marks a response served from the upstream.
	CacheMiss = "MISS"
)

// Handler is the caching reverse proxy. It is safe for concurrent use; all
// cross-request state lives in the Store.
type Handler struct {
	cfg       *config.Config
	store     cache.Store
	forwarder upstream.Forwarder
	logger    zerolog.Logger
}

// NewHandler creates the proxy handler. The configuration is treated as
// immutable after this call.
func NewHandler(cfg *config.Config, store cache.Store, forwarder upstream.Forwarder) (*Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if forwarder == nil {
		return nil, fmt.Errorf("forwarder is required")
	}

	return &Handler{
		cfg:       cfg,
		store:     store,
		forwarder: forwarder,
		logger:    logging.NewLogger("proxy"),
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	domain, rest := splitTarget(r.URL.Path)

	up, ok := h.cfg.Lookup(domain)
	if !ok {
		forbiddenTotal.Inc()
		h.logger.Warn().
			Str("domain", domain).
			Str("path", rest).
			Msg("Rejected request for disallowed domain")
		writeJSONError(w, http.StatusForbidden, "domain not allowed")
		return
	}

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(domain).Observe(time.Since(startTime).Seconds())
	}()

	cacheable := r.Method == http.MethodGet && up.Cacheable(rest)
	key := cache.Key{
		Domain: domain,
		Path:   rest,
		Query:  r.URL.Query(),
	}
	digest := key.Digest()

	h.logger.Debug().
		Str("domain", domain).
		Str("path", rest).
		Bool("cacheable", cacheable).
		Str("key", digest).
		Msg("Handling request")

	if cacheable {
		entry, err := h.lookup(r.Context(), digest)
		if err == nil {
			cache.Hits.Inc()
			requestsTotal.WithLabelValues(domain, "hit").Inc()
			h.logger.Debug().
				Str("domain", domain).
				Str("key", digest).
				Msg("Cache hit")
			writeEntry(w, entry, CacheHit)
			return
		}
		cache.Misses.Inc()
	}

	resp, err := h.forward(r, up, rest)
	if err != nil {
		upstreamFailuresTotal.Inc()
		requestsTotal.WithLabelValues(domain, "error").Inc()
		h.logger.Error().
			Err(err).
			Str("domain", domain).
			Str("path", rest).
			Msg("Upstream request failed")
		w.Header().Set(CacheStatusHeader, CacheMiss)
		writeJSONError(w, http.StatusBadGateway, "upstream request failed")
		return
	}

	// Store only successful responses on cacheable paths. Write failures
	// never surface to the client; the request itself succeeded.
	if cacheable && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		entry := cache.NewEntry(resp.StatusCode, resp.Header, resp.Body)
		if err := h.store.Put(r.Context(), digest, entry); err != nil {
			h.logger.Warn().
				Err(err).
				Str("domain", domain).
				Str("key", digest).
				Msg("Failed to store cache entry")
		} else {
			h.logger.Debug().
				Str("domain", domain).
				Str("key", digest).
				Msg("Stored cache entry")
		}
	}

	requestsTotal.WithLabelValues(domain, "miss").Inc()
	writeResponse(w, resp, CacheMiss)
}

// lookup reads the store, degrading any store failure to a miss.
func (h *Handler) lookup(ctx context.Context, digest string) (*cache.Entry, error) {
	entry, err := h.store.Get(ctx, digest)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			h.logger.Warn().
				Err(err).
				Str("key", digest).
				Msg("Store lookup failed, treating as miss")
		}
		return nil, err
	}
	return entry, nil
}

// forward issues the single upstream attempt with the configured timeout and
// the upstream's header pass-through allowlist applied.
func (h *Handler) forward(r *http.Request, up *config.Upstream, rest string) (*upstream.Response, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.UpstreamTimeout)
	defer cancel()

	header := http.Header{}
	for name, values := range r.Header {
		if up.ForwardsHeader(name) {
			header[name] = values
		}
	}

	return h.forwarder.Forward(ctx, upstream.Request{
		Domain: up.Domain,
		Method: r.Method,
		Path:   rest,
		Query:  r.URL.Query(),
		Header: header,
		Body:   r.Body,
	})
}

// splitTarget splits the inbound path into the embedded target domain and
// the remaining path (no leading slash).
func splitTarget(rawPath string) (domain, rest string) {
	trimmed := strings.TrimPrefix(rawPath, "/")
	domain, rest, _ = strings.Cut(trimmed, "/")
	return domain, rest
}

// writeEntry emits a stored response verbatim plus the cache status header.
func writeEntry(w http.ResponseWriter, entry *cache.Entry, status string) {
	copyHeaders(w.Header(), entry.Headers)
	w.Header().Set(CacheStatusHeader, status)
	w.WriteHeader(entry.StatusCode)
	w.Write(entry.Body)
}

// writeResponse emits an upstream response verbatim plus the cache status
// header.
func writeResponse(w http.ResponseWriter, resp *upstream.Response, status string) {
	copyHeaders(w.Header(), resp.Header)
	w.Header().Set(CacheStatusHeader, status)
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": %q}`, message)
}
