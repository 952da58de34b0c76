// Package events publishes "order placed" notifications for fulfillment.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cartflow/pkg/order"
)

// Event identity and routing for placed orders.
const (
	// OrderPlacedEvent is the eventName of OrderPlaced envelopes.
	OrderPlacedEvent = "OrderPlaced"
	// OrderPlacedVersion is the current payload schema version.
	OrderPlacedVersion = 1
	// OrderPlacedQueue is the durable RabbitMQ queue events land in.
	OrderPlacedQueue = "order.placed"
	// Producer names this service in every envelope.
	Producer = "cartflow"
)

// Envelope is the common wrapper around every published payload.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}

// OrderPlaced is the payload announcing a placed order.
type OrderPlaced struct {
	OrderID      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Address      string          `json:"address"`
	Comments     string          `json:"comments,omitempty"`
	Lines        []order.Line    `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	PlacedAt     time.Time       `json:"placedAt"`
}

// Validate ensures the envelope carries the expected event identity.
func (e Envelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}

// NewOrderPlaced wraps o in a fresh envelope keyed by the order ID.
func NewOrderPlaced(o order.Order) Envelope[OrderPlaced] {
	return Envelope[OrderPlaced]{
		EventName:    OrderPlacedEvent,
		EventVersion: OrderPlacedVersion,
		EventID:      uuid.NewString(),
		Producer:     Producer,
		PartitionKey: o.ID,
		OccurredAt:   time.Now().UTC(),
		Payload: OrderPlaced{
			OrderID:      o.ID,
			CustomerName: o.CustomerName,
			Address:      o.Address,
			Comments:     o.Comments,
			Lines:        o.Lines,
			Total:        o.Total,
			PlacedAt:     o.PlacedAt.UTC(),
		},
	}
}

func encodeOrderPlaced(o order.Order) ([]byte, error) {
	body, err := json.Marshal(NewOrderPlaced(o))
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", OrderPlacedEvent, err)
	}
	return body, nil
}

// Nop drops every notification.
type Nop struct{}

// OrderPlaced does nothing.
func (Nop) OrderPlaced(ctx context.Context, o order.Order) error { return nil }

// Fanout delivers each notification to every notifier in order and
// returns the joined errors.
type Fanout []order.Notifier

// OrderPlaced notifies all members even when one fails.
func (f Fanout) OrderPlaced(ctx context.Context, o order.Order) error {
	var errs []error
	for _, n := range f {
		if err := n.OrderPlaced(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
