// Package memory implements an in-memory cart slot backend.
package memory

import (
	"context"
	"slices"
	"sync"

	"cartflow/pkg/cart"
)

// KV is an in-memory implementation of cart.KV.
type KV struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// New creates an empty KV.
func New() *KV {
	return &KV{slots: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.slots[key]
	if !ok {
		return nil, cart.ErrSlotEmpty
	}
	return slices.Clone(v), nil
}

// Set overwrites the value stored under key.
func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.slots[key] = slices.Clone(value)
	return nil
}
