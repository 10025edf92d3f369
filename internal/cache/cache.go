package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a time-expiring key/value store for query results. Entries
// are idempotently reconstructible from the source of truth, so
// readers and writers do not coordinate beyond last-write-wins per key.
//
// Get must never return an expired entry; expired and absent keys are
// indistinguishable to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserKey builds a cache key partitioned by user so entries can never
// leak across users. The same (userID, discriminator) always yields
// the same key.
func UserKey(userID, discriminator string) string {
	return fmt.Sprintf("user:%s:%s", userID, discriminator)
}

// GetJSON reads and unmarshals a cached value. A miss or an
// unmarshalable entry both report a miss; a stale-format entry is not
// worth failing a request over.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false, nil
	}
	return v, true, nil
}

// SetJSON marshals and stores a value with the given TTL.
func SetJSON[T any](ctx context.Context, c Cache, key string, value T, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return c.Set(ctx, key, b, ttl)
}
