// Package cart holds a customer's selected menu items and keeps them in a
// durable key-value slot between page loads.
package cart

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrIndexOutOfRange indicates a positional index that no longer
	// addresses an entry, typically a stale row after a removal.
	ErrIndexOutOfRange = errors.New("cart index out of range")
	// ErrEntryNotFound indicates no entry carries the requested name.
	ErrEntryNotFound = errors.New("cart entry not found")
)

// Entry is one product line. Name identifies the product; UnitPrice is
// the price when the line was first created.
type Entry struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// MarshalJSON writes the price as a JSON number, the layout the ordering
// page keeps in its slot.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{e.Name, json.Number(e.UnitPrice.String()), e.Quantity})
}

// Subtotal returns UnitPrice times Quantity.
func (e Entry) Subtotal() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is a read-only view of the entries in insertion order and the
// running total.
type Cart struct {
	Entries []Entry         `json:"entries"`
	Total   decimal.Decimal `json:"total"`
}

// Count returns the number of distinct products.
func (c Cart) Count() int {
	return len(c.Entries)
}

// Sum recomputes the total from the entries.
func (c Cart) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range c.Entries {
		sum = sum.Add(e.Subtotal())
	}
	return sum
}

// IsEmpty reports whether the cart has no entries.
func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}
