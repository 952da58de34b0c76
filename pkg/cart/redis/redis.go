// Package redis keeps cart slots in Redis.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"cartflow/pkg/cart"
)

// KV stores each cart slot as a plain Redis string.
type KV struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// New creates a Redis-backed cart.KV. Keys are prefixed with prefix; a
// zero ttl keeps slots until they are overwritten.
func New(client goredis.Cmdable, prefix string, ttl time.Duration) *KV {
	return &KV{client: client, prefix: prefix, ttl: ttl}
}

// Get reads the slot stored under key.
func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := kv.client.Get(ctx, kv.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cart.ErrSlotEmpty
	}
	return v, err
}

// Set overwrites the slot stored under key and refreshes its expiry.
func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	return kv.client.Set(ctx, kv.prefix+key, value, kv.ttl).Err()
}
