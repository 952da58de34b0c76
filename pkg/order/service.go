package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cartflow/pkg/cart"
	"cartflow/pkg/logger"
)

// Channel delivers a composed message to the merchant and returns a
// reference to the delivery, such as a chat link.
type Channel interface {
	Send(ctx context.Context, message string) (string, error)
}

// Notifier is told about every placed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, o Order) error
}

// Recorder counts checkout outcomes.
type Recorder interface {
	OrderPlaced()
	CheckoutRejected(reason string)
}

// Service runs checkout: validate, gate on business hours, compose, hand
// off to the merchant, archive, then clear the cart.
type Service struct {
	composer Composer
	channel  Channel
	repo     Repository
	notifier Notifier
	recorder Recorder
	log      *logger.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithNotifier publishes placed orders through n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithRecorder counts outcomes in r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService wires a checkout Service.
func NewService(c Composer, ch Channel, repo Repository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{composer: c, channel: ch, repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Composer returns the composer the service validates with.
func (s *Service) Composer() Composer {
	return s.composer
}

// Place checks out the cart held by store. On any error the cart is left
// as it was.
func (s *Service) Place(ctx context.Context, store *cart.Store, d Details, now time.Time) (Order, error) {
	if err := s.composer.Validate(d.CustomerName, d.Address); err != nil {
		s.rejected(reason(err))
		return Order{}, err
	}
	if err := s.composer.CheckSubmittable(now); err != nil {
		s.rejected(reason(err))
		return Order{}, err
	}

	snap := store.Snapshot()
	clean := d.Clean()
	o := Order{
		ID:           uuid.NewString(),
		CustomerName: clean.CustomerName,
		Address:      clean.Address,
		Comments:     clean.Comments,
		Total:        snap.Total,
		Message:      s.composer.Compose(snap, d),
		PlacedAt:     now,
	}
	for _, e := range snap.Entries {
		o.Lines = append(o.Lines, Line{Name: Sanitize(e.Name), UnitPrice: e.UnitPrice, Quantity: e.Quantity})
	}

	link, err := s.channel.Send(ctx, o.Message)
	if err != nil {
		return Order{}, fmt.Errorf("send order: %w", err)
	}
	o.Link = link

	if err := s.repo.Create(ctx, o); err != nil {
		s.log.Error(ctx, "archive order", "order_id", o.ID, "error", err)
	}
	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, o); err != nil {
			s.log.Error(ctx, "publish order placed", "order_id", o.ID, "error", err)
		}
	}
	if s.recorder != nil {
		s.recorder.OrderPlaced()
	}

	store.Clear(ctx)
	s.log.Info(ctx, "order placed", "order_id", o.ID, "lines", len(o.Lines), "total", o.Total.StringFixed(2))
	return o, nil
}

func (s *Service) rejected(r string) {
	if s.recorder != nil {
		s.recorder.CheckoutRejected(r)
	}
}

func reason(err error) string {
	switch err {
	case ErrMissingName:
		return "missing_name"
	case ErrMissingAddress:
		return "missing_address"
	case ErrClosedForOrders:
		return "closed_for_orders"
	default:
		return "other"
	}
}
