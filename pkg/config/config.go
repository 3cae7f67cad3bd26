// Package config holds the static upstream allowlist and proxy settings.
//
// The configuration is built once at process startup and treated as immutable
// afterwards; the proxy handler receives it explicitly rather than reading
// any global state.
package config

import (
	"fmt"
	"net/textproto"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Upstream describes one allowlisted target domain.
type Upstream struct {
	// Domain is the exact domain name clients embed as the first path
	// segment (case-sensitive match).
	Domain string `yaml:"domain"`

	// CachePrefixes are the path prefixes (relative to the domain, no
	// leading slash) eligible for caching. GET requests outside these
	// prefixes are forwarded but never cached.
	CachePrefixes []string `yaml:"cache_prefixes"`

	// ForwardHeaders are the request header names passed through to the
	// upstream. Anything not listed is dropped, so internal proxy headers
	// never leak. API credentials required by the upstream must be listed
	// here.
	ForwardHeaders []string `yaml:"forward_headers"`
}

// Config is the full proxy configuration.
type Config struct {
	// Listen is the HTTP listen address (e.g., ":8080").
	Listen string `yaml:"listen"`

	// Upstreams is the domain allowlist. Requests whose first path segment
	// matches no entry are rejected with 403.
	Upstreams []Upstream `yaml:"upstreams"`

	// StoreTimeout bounds individual cache store operations.
	StoreTimeout time.Duration `yaml:"-"`

	// UpstreamTimeout bounds the forwarded HTTP request.
	UpstreamTimeout time.Duration `yaml:"-"`
}

// fileConfig mirrors Config for YAML decoding; durations are strings in the
// file ("2s", "30s") and parsed during Load.
type fileConfig struct {
	Listen          string     `yaml:"listen"`
	Upstreams       []Upstream `yaml:"upstreams"`
	StoreTimeout    string     `yaml:"store_timeout"`
	UpstreamTimeout string     `yaml:"upstream_timeout"`
}

// Default returns the built-in configuration: the two currency-rate APIs the
// proxy was deployed for, each with its cacheable sub-path.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		StoreTimeout:    2 * time.Second,
		UpstreamTimeout: 30 * time.Second,
		Upstreams: []Upstream{
			{
				Domain:         "openexchangerates.org",
				CachePrefixes:  []string{"api/historical/"},
				ForwardHeaders: []string{"Authorization", "Accept", "User-Agent"},
			},
			{
				Domain:         "api.twelvedata.com",
				CachePrefixes:  []string{"eod"},
				ForwardHeaders: []string{"Authorization", "Accept", "User-Agent"},
			},
		},
	}
}

// Load reads configuration from a YAML file. Fields left empty in the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	cfg := &Config{
		Listen:          fc.Listen,
		Upstreams:       fc.Upstreams,
		StoreTimeout:    2 * time.Second,
		UpstreamTimeout: 30 * time.Second,
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if fc.StoreTimeout != "" {
		d, err := time.ParseDuration(fc.StoreTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid store_timeout: %w", err)
		}
		cfg.StoreTimeout = d
	}
	if fc.UpstreamTimeout != "" {
		d, err := time.ParseDuration(fc.UpstreamTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream_timeout: %w", err)
		}
		cfg.UpstreamTimeout = d
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if len(c.Upstreams) == 0 {
		return fmt.Errorf("at least one upstream is required")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %v", c.StoreTimeout)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %v", c.UpstreamTimeout)
	}

	seen := make(map[string]bool, len(c.Upstreams))
	for i, up := range c.Upstreams {
		if up.Domain == "" {
			return fmt.Errorf("upstream %d: domain is required", i)
		}
		if strings.ContainsAny(up.Domain, "/?#") {
			return fmt.Errorf("upstream %q: domain must not contain path or query characters", up.Domain)
		}
		if seen[up.Domain] {
			return fmt.Errorf("upstream %q: duplicate domain", up.Domain)
		}
		seen[up.Domain] = true

		for _, prefix := range up.CachePrefixes {
			if strings.HasPrefix(prefix, "/") {
				return fmt.Errorf("upstream %q: cache prefix %q must not start with a slash", up.Domain, prefix)
			}
		}
	}

	return nil
}

// Lookup returns the upstream descriptor for an exact domain match.
func (c *Config) Lookup(domain string) (*Upstream, bool) {
	for i := range c.Upstreams {
		if c.Upstreams[i].Domain == domain {
			return &c.Upstreams[i], true
		}
	}
	return nil, false
}

// Cacheable reports whether the remaining request path (no leading slash)
// falls under one of the upstream's cacheable prefixes.
func (u *Upstream) Cacheable(path string) bool {
	for _, prefix := range u.CachePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// ForwardsHeader reports whether the named request header may be passed
// through to this upstream. Matching is case-insensitive.
func (u *Upstream) ForwardsHeader(name string) bool {
	canonical := textproto.CanonicalMIMEHeaderKey(name)
	for _, h := range u.ForwardHeaders {
		if textproto.CanonicalMIMEHeaderKey(h) == canonical {
			return true
		}
	}
	return false
}
