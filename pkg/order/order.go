package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Details are the customer-supplied checkout fields.
type Details struct {
	CustomerName string `json:"customerName"`
	Address      string `json:"address"`
	Comments     string `json:"comments"`
}

// Line is one product line of a placed order.
type Line struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Order represents a customer order handed off to the merchant. Text
// fields hold the sanitized values that went into Message.
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Address      string          `json:"address"`
	Comments     string          `json:"comments"`
	Lines        []Line          `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	Message      string          `json:"message"`
	Link         string          `json:"link"`
	PlacedAt     time.Time       `json:"placedAt"`
}

// Repository defines behavior for archiving placed orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

var (
	// ErrMissingName blocks checkout until the customer gives a name.
	ErrMissingName = errors.New("customer name is required")
	// ErrMissingAddress blocks checkout and raises the address warning.
	ErrMissingAddress = errors.New("delivery address is required")
	// ErrClosedForOrders blocks checkout outside business hours.
	ErrClosedForOrders = errors.New("closed for orders")
)
