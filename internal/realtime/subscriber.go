package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/kvstore"
)

// Subscriber is the long-lived consumer side of the event fan-out. It
// subscribes to the shared channel at startup and re-broadcasts each event to
// the interested rooms.
type Subscriber struct {
	store  kvstore.Store
	hub    *Hub
	logger *zap.Logger
}

// NewSubscriber builds the consumer.
func NewSubscriber(store kvstore.Store, hub *Hub, logger *zap.Logger) *Subscriber {
	return &Subscriber{store: store, hub: hub, logger: logger}
}

// Run blocks consuming the channel until ctx is cancelled or the
// subscription ends.
func (s *Subscriber) Run(ctx context.Context) error {
	sub, err := s.store.Subscribe(ctx, events.Channel)
	if err != nil {
		return err
	}
	defer sub.Close()

	s.logger.Info("subscribed", zap.String("channel", events.Channel))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			s.Dispatch(payload)
		}
	}
}

// Dispatch decodes one published message and routes it by type. Malformed
// messages are logged and dropped.
func (s *Subscriber) Dispatch(payload string) {
	var event events.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("malformed event", zap.Error(err))
		return
	}

	switch event.Type {
	case events.TypeNewComment:
		s.handleNewComment(event)
	default:
		s.logger.Debug("ignoring event", zap.String("type", string(event.Type)))
	}
}

func (s *Subscriber) handleNewComment(event events.Event) {
	var p events.NewCommentPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		s.logger.Warn("malformed new_comment payload", zap.Error(err))
		return
	}

	// Everyone viewing the resource sees the comment live.
	s.hub.Broadcast(ResourceRoom(p.Comment.ResourceID), ServerMessage{
		Event: "comment_added",
		Data:  p.Comment,
	})

	// The resource owner gets a personal notification, unless they commented
	// on their own resource.
	if p.Comment.AuthorID != "" && p.Comment.AuthorID != p.ResourceAuthorID {
		s.hub.Broadcast(UserRoom(p.ResourceAuthorID), ServerMessage{
			Event: "notification",
			Data: Notification{
				Title:   "New Comment",
				Message: "Someone commented on your article \"" + p.ResourceTitle + "\"",
				Data:    p.Comment,
			},
		})
	}
}
