package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cartflow/pkg/logger"
)

// Key is the slot name a cart is saved under.
const Key = "cart"

// ErrSlotEmpty is returned by a KV when the key holds nothing.
var ErrSlotEmpty = errors.New("cart slot empty")

// KV is the durable key-value backend behind Persistence.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Persistence saves a cart as a JSON list of entries under one key. The
// total is never stored; Load recomputes it.
type Persistence struct {
	kv  KV
	key string
	log *logger.Logger
}

// NewPersistence binds kv and key.
func NewPersistence(kv KV, key string, log *logger.Logger) *Persistence {
	return &Persistence{kv: kv, key: key, log: log}
}

// SessionKey returns the slot name for one browser session.
func SessionKey(sessionID string) string {
	return Key + ":" + sessionID
}

// Save overwrites the slot with the entries of c.
func (p *Persistence) Save(ctx context.Context, c Cart) error {
	entries := c.Entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := p.kv.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("write cart slot %s: %w", p.key, err)
	}
	return nil
}

// Load reads the slot. Anything missing, unreadable or inconsistent
// yields an empty cart.
func (p *Persistence) Load(ctx context.Context) Cart {
	data, err := p.kv.Get(ctx, p.key)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			p.warn(ctx, "read cart slot", err)
		}
		return Cart{}
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		p.warn(ctx, "decode cart", err)
		return Cart{}
	}
	if err := checkEntries(entries); err != nil {
		p.warn(ctx, "discard saved cart", err)
		return Cart{}
	}
	c := Cart{Entries: entries}
	c.Total = c.Sum()
	return c
}

func (p *Persistence) warn(ctx context.Context, msg string, err error) {
	if p.log != nil {
		p.log.Warn(ctx, msg, "key", p.key, "error", err)
	}
}

func checkEntries(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return errors.New("entry without name")
		}
		if e.Quantity < 1 {
			return fmt.Errorf("entry %q has quantity %d", e.Name, e.Quantity)
		}
		if e.UnitPrice.IsNegative() {
			return fmt.Errorf("entry %q has negative price", e.Name)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate entry %q", e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
