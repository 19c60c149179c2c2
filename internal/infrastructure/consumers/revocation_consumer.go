// Package consumers contains the Kafka consumers that feed external events
// into the local stores.
package consumers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/logger"
)

// RevocationConsumer applies revocation events published by other replicas
// to the local revocation store. Local revocations already hit the shared
// store directly; this is the fan-in path for deployments running one store
// per region.
type RevocationConsumer struct {
	reader      *kafka.Reader
	revocations service.RevocationStore
	tokenTTL    time.Duration
	logger      logger.Logger
}

// NewRevocationConsumer builds the consumer. All instances share a consumer
// group so each event is applied once per region.
func NewRevocationConsumer(cfg config.AuditConfig, revocations service.RevocationStore, tokenTTL time.Duration, log logger.Logger) *RevocationConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        "authcore-revocation-consumers",
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
	if tokenTTL <= 0 {
		tokenTTL = constants.DefaultTokenTTL
	}
	return &RevocationConsumer{
		reader:      reader,
		revocations: revocations,
		tokenTTL:    tokenTTL,
		logger:      log.WithComponent("RevocationConsumer"),
	}
}

// Run consumes until the context is cancelled. It blocks and is meant to be
// driven from an errgroup.
func (c *RevocationConsumer) Run(ctx context.Context) error {
	c.logger.Info(ctx, "starting revocation consumer")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info(ctx, "stopping revocation consumer")
				return nil
			}
			c.logger.Error(ctx, "failed to fetch message", err)
			continue
		}

		var event service.AuditEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error(ctx, "failed to decode event", err)
			// Commit poison pills so they are not replayed forever.
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.handle(ctx, event); err != nil {
			// Leave uncommitted so the event is retried.
			c.logger.Error(ctx, "failed to apply revocation event", err,
				logger.String("jti", event.TokenID))
			continue
		}
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

// Close releases the underlying reader.
func (c *RevocationConsumer) Close() error {
	return c.reader.Close()
}

func (c *RevocationConsumer) handle(ctx context.Context, event service.AuditEvent) error {
	if event.Type != constants.AuditEventTokenRevoked || event.TokenID == "" {
		return nil
	}
	// The event does not carry the token's expiry, so the entry gets the
	// maximum lifetime an access token can still have.
	return c.revocations.MarkRevoked(ctx, event.TokenID, c.tokenTTL)
}
