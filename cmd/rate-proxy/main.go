package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/marketrates/rate-proxy/pkg/cache"
	"github.com/marketrates/rate-proxy/pkg/config"
	"github.com/marketrates/rate-proxy/pkg/logging"
	"github.com/marketrates/rate-proxy/pkg/metrics"
	"github.com/marketrates/rate-proxy/pkg/proxy"
	"github.com/marketrates/rate-proxy/pkg/upstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})

	// Configuration: built-in allowlist unless a config file is given
	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("Failed to load config")
		}
		cfg = loaded
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Store backend: Redis in production, in-memory for local development
	var store cache.Store
	var redisClient *redis.Client
	switch backend := getEnv("STORE", "redis"); backend {
	case "memory":
		store = cache.NewMemoryStore()
		logger.Info().Msg("Using in-memory store")
	case "redis":
		redisURL := getEnv("REDIS_URL", "localhost:6379")
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisURL,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", redisURL).Msg("Failed to connect to Redis")
		}
		store = cache.NewRedisStore(redisClient, cfg.StoreTimeout)
		logger.Info().Str("addr", redisURL).Msg("Connected to Redis")
	default:
		logger.Fatal().Str("store", backend).Msg("Unknown store backend")
	}

	forwarder := upstream.NewClient(cfg.UpstreamTimeout)

	handler, err := proxy.NewHandler(cfg, store, forwarder)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create proxy handler")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(redisClient))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/", handler)

	for _, up := range cfg.Upstreams {
		logger.Info().
			Str("domain", up.Domain).
			Strs("cache_prefixes", up.CachePrefixes).
			Msg("Upstream configured")
	}
	logger.Info().Str("addr", cfg.Listen).Msg("Starting rate proxy")

	if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness; with a Redis store this means Redis
// answers a ping. The memory store is always ready.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, "redis unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
