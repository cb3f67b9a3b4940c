package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

var _ mentor.EventSink = (*Producer)(nil)

// Publisher is the part of a Connection the producer needs
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, data any) error
}

// Producer publishes mentor events, routed by event type
type Producer struct {
	pub    Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer
func NewProducer(pub Publisher, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{pub: pub, logger: logger}
}

// Publish sends the event to the exchange
func (p *Producer) Publish(ctx context.Context, e domain.Event) error {
	if err := p.pub.PublishJSON(ctx, string(e.Type), e); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}

	p.logger.Debug("published event",
		"event_id", e.ID,
		"event_type", e.Type,
		"user_id", e.UserID,
	)
	return nil
}
