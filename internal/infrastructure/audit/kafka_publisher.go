// Package audit ships token lifecycle events to a Kafka stream.
package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/pkg/logger"
)

// messageWriter is the slice of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a Kafka-backed AuditPublisher. Publishing is
// best-effort: a broker outage is logged and dropped, never surfaced
// to the caller.
type KafkaPublisher struct {
	writer messageWriter
	logger logger.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic. When no
// brokers are configured it returns a no-op publisher instead.
func NewKafkaPublisher(cfg config.AuditConfig, log logger.Logger) service.AuditPublisher {
	if len(cfg.Brokers) == 0 {
		return NewNoopPublisher()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &KafkaPublisher{
		writer: writer,
		logger: log.WithComponent("KafkaPublisher"),
	}
}

// Publish serializes the event and hands it to the async writer.
func (p *KafkaPublisher) Publish(ctx context.Context, event service.AuditEvent) {
	bytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal audit event", err,
			logger.String("event_type", string(event.Type)))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Subject),
		Value: bytes,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to write audit event to Kafka", err,
			logger.String("event_type", string(event.Type)))
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
