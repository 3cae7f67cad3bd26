package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces proxy entries within the Redis keyspace.
const keyPrefix = "rateproxy:"

// RedisStore is the production Store backed by Redis. Entries are written
// without expiration; a later request for the same key reads the existing
// entry rather than re-forwarding.
type RedisStore struct {
	redis   *redis.Client
	timeout time.Duration
}

// NewRedisStore creates a Redis-backed store. Every operation is bounded by
// the given timeout in addition to the caller's context.
func NewRedisStore(redisClient *redis.Client, timeout time.Duration) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisStore{
		redis:   redisClient,
		timeout: timeout,
	}
}

// Get retrieves a cache entry by key digest.
// Returns ErrNotFound if the key doesn't exist.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.redis.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		storeErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		storeErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Put stores a cache entry with no expiration.
func (s *RedisStore) Put(ctx context.Context, key string, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		storeErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.redis.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		storeErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
