package cart

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"cartflow/pkg/logger"
)

// Saver receives the cart state after every mutation.
type Saver interface {
	Save(ctx context.Context, c Cart) error
}

// Store is the cart state machine. A Store is not safe for concurrent
// use; callers build one per event and discard it afterwards.
//
// Index-addressed operations refer to the current position of an entry.
// An index is valid only until the next add, removal or clear.
type Store struct {
	entries []Entry
	total   decimal.Decimal
	saver   Saver
	log     *logger.Logger
}

// NewStore returns an empty store writing through to saver. A nil saver
// keeps the cart in memory only.
func NewStore(saver Saver, log *logger.Logger) *Store {
	return &Store{saver: saver, log: log}
}

// Open restores the cart saved in p and returns a store that saves back
// to it.
func Open(ctx context.Context, p *Persistence, log *logger.Logger) *Store {
	s := NewStore(p, log)
	s.Restore(p.Load(ctx))
	return s
}

// AddItem adds one unit of the named product. An existing entry keeps
// its original unit price, but the total always grows by price.
func (s *Store) AddItem(ctx context.Context, name string, price decimal.Decimal) {
	if i := s.IndexOf(name); i >= 0 {
		s.entries[i].Quantity++
	} else {
		s.entries = append(s.entries, Entry{Name: name, UnitPrice: price, Quantity: 1})
	}
	s.total = s.total.Add(price)
	s.save(ctx)
}

// IncreaseQuantity adds one unit to the entry at index.
func (s *Store) IncreaseQuantity(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries[index].Quantity++
	s.total = s.total.Add(s.entries[index].UnitPrice)
	s.save(ctx)
	return nil
}

// DecreaseQuantity removes one unit from the entry at index, dropping the
// entry when its last unit goes. Later entries shift down by one.
func (s *Store) DecreaseQuantity(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	e := &s.entries[index]
	s.total = s.total.Sub(e.UnitPrice)
	if e.Quantity > 1 {
		e.Quantity--
	} else {
		s.entries = slices.Delete(s.entries, index, index+1)
	}
	s.save(ctx)
	return nil
}

// IncreaseItem is IncreaseQuantity addressed by product name.
func (s *Store) IncreaseItem(ctx context.Context, name string) error {
	i := s.IndexOf(name)
	if i < 0 {
		return ErrEntryNotFound
	}
	return s.IncreaseQuantity(ctx, i)
}

// DecreaseItem is DecreaseQuantity addressed by product name.
func (s *Store) DecreaseItem(ctx context.Context, name string) error {
	i := s.IndexOf(name)
	if i < 0 {
		return ErrEntryNotFound
	}
	return s.DecreaseQuantity(ctx, i)
}

// IndexOf returns the position of the named entry or -1.
func (s *Store) IndexOf(name string) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.Name == name })
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.entries = nil
	s.total = decimal.Zero
	s.save(ctx)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Cart {
	return Cart{Entries: slices.Clone(s.entries), Total: s.total}
}

// Restore replaces the state wholesale without saving it.
func (s *Store) Restore(c Cart) {
	s.entries = slices.Clone(c.Entries)
	s.total = c.Total
}

func (s *Store) save(ctx context.Context) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, s.Snapshot()); err != nil && s.log != nil {
		s.log.Warn(ctx, "save cart", "error", err)
	}
}
