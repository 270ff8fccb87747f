package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"sazo-orders/internal/model"

	kafka "github.com/segmentio/kafka-go"
)

// EventTransport publishes an order-created event to Kafka so other
// back-office consumers can react without coupling to the order service.
type EventTransport struct {
	writer *kafka.Writer
}

// NewEventTransport creates a Kafka-backed event transport.
func NewEventTransport(brokers []string, topic string) *EventTransport {
	return &EventTransport{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Name identifies the transport in logs.
func (t *EventTransport) Name() string { return "kafka" }

// Send publishes the order as a JSON event keyed by its order id.
func (t *EventTransport) Send(ctx context.Context, order *model.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	if err := t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (t *EventTransport) Close() error {
	return t.writer.Close()
}
