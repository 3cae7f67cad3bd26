package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cacheable upstream request.
type Key struct {
	// Domain is the validated target domain (e.g., "openexchangerates.org").
	Domain string

	// Path is the remaining request path after the domain segment,
	// without a leading slash (e.g., "api/historical/2025-01-01.json").
	Path string

	// Query holds the request query parameters.
	Query url.Values
}

// String generates the canonical key string.
// Format: rate:domain:path:param1=val1:param2=val2
//
// Parameter names are sorted lexicographically; values are taken verbatim in
// the order they were supplied for a given name. The result depends only on
// the logical request, never on parameter ordering or process state.
//
// Example:
//
//	rate:openexchangerates.org:api/historical/2025-01-01.json:base=USD:symbols=AUD
func (k Key) String() string {
	parts := []string{"rate", k.Domain}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			for _, value := range k.Query[name] {
				parts = append(parts, fmt.Sprintf("%s=%s", name, value))
			}
		}
	}

	return strings.Join(parts, ":")
}

// Digest returns the hex-encoded SHA-256 digest of the canonical key string.
// This is the value handed to the Store.
func (k Key) Digest() string {
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:])
}
