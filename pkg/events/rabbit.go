package events

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cartflow/pkg/order"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes order events to a durable RabbitMQ queue.
type RabbitPublisher struct {
	ch amqpChannel
}

// NewRabbitPublisher opens a channel on conn and declares the queue so
// publishing never fails due to missing infrastructure.
func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrderPlacedQueue, err)
	}
	return &RabbitPublisher{ch: ch}, nil
}

// Close closes the underlying channel.
func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// OrderPlaced publishes o as a persistent JSON message.
func (p *RabbitPublisher) OrderPlaced(ctx context.Context, o order.Order) error {
	body, err := encodeOrderPlaced(o)
	if err != nil {
		return err
	}
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return p.ch.PublishWithContext(
		pubCtx,
		"",               // default exchange
		OrderPlacedQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    o.ID,
			Body:         body,
		},
	)
}
