package cache

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested key has no entry in the store.
	ErrNotFound = errors.New("cache entry not found")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the key-value backend consumed by the proxy. Implementations must
// be safe for concurrent use. Writes for the same key are idempotent; the
// proxy may issue duplicate Puts for concurrent misses and last write wins.
type Store interface {
	// Get returns the entry for key, ErrNotFound when absent, or another
	// error when the backend is unavailable.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put stores the entry under key with no expiration.
	Put(ctx context.Context, key string, entry *Entry) error
}
