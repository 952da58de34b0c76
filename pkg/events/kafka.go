package events

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"cartflow/pkg/order"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events to a Kafka topic keyed by order ID.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher writes to topic on the comma-separated brokers.
func NewKafkaPublisher(brokersCSV, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// OrderPlaced writes o as a JSON message.
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o order.Order) error {
	body, err := encodeOrderPlaced(o)
	if err != nil {
		return err
	}
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return p.w.WriteMessages(pubCtx, kafka.Message{Key: []byte(o.ID), Value: body, Time: time.Now().UTC()})
}

func splitBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
