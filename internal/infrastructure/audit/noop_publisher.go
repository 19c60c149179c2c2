package audit

import (
	"context"

	"github.com/linegroup/authcore/internal/domain/service"
)

// NoopPublisher discards every event. Used when no brokers are configured
// and in tests.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops all events.
func NewNoopPublisher() service.AuditPublisher {
	return &NoopPublisher{}
}

// Publish discards the event.
func (p *NoopPublisher) Publish(_ context.Context, _ service.AuditEvent) {}

// Close is a no-op.
func (p *NoopPublisher) Close() error { return nil }
