package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Bytes is a small binary-value cache on top of Redis, used for rendered
// label documents. A nil *Bytes is a no-op cache.
type Bytes struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBytes wraps client with a fixed TTL for stored entries.
func NewBytes(client *redis.Client, ttl time.Duration) *Bytes {
	return &Bytes{client: client, ttl: ttl}
}

// Get returns the cached value and whether it was present.
func (b *Bytes) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b == nil || b.client == nil {
		return nil, false, nil
	}
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key for the configured TTL.
func (b *Bytes) Set(ctx context.Context, key string, value []byte) error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Set(ctx, key, value, b.ttl).Err()
}
