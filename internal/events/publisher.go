package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/kvstore"
)

// Publisher emits events on the shared channel. Publishing is fire-and-forget:
// a failure is logged and never fails the write it accompanies.
type Publisher struct {
	store  kvstore.Store
	logger *zap.Logger
}

// NewPublisher builds a publisher on the shared state store.
func NewPublisher(store kvstore.Store, logger *zap.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Publish serializes and publishes one event.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	encoded, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.store.Publish(ctx, Channel, string(encoded))
}

// PublishAsync publishes outside the request/response cycle so delivery never
// blocks the write path. Errors are logged only.
func (p *Publisher) PublishAsync(event Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			p.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
		}
	}()
}
