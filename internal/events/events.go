// Package events carries the pub/sub wire contract between the content
// service and the notification service.
package events

import (
	"encoding/json"

	"github.com/spec-kit/blog-platform/internal/domain"
)

// Channel is the well-known pub/sub channel both sides agree on.
const Channel = "notifications"

// Type enumerates supported event identifiers.
type Type string

const (
	// TypeNewComment announces a freshly stored comment.
	TypeNewComment Type = "new_comment"
)

// Event is the transient envelope published on the channel. It is never
// persisted; a subscriber that is not connected misses it permanently.
type Event struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewCommentPayload is the new_comment payload.
type NewCommentPayload struct {
	Comment          domain.Comment `json:"comment"`
	ResourceTitle    string         `json:"resourceTitle"`
	ResourceAuthorID string         `json:"resourceAuthorId"`
}

// NewComment builds a new_comment event.
func NewComment(comment domain.Comment, resourceTitle, resourceAuthorID string) (Event, error) {
	payload, err := json.Marshal(NewCommentPayload{
		Comment:          comment,
		ResourceTitle:    resourceTitle,
		ResourceAuthorID: resourceAuthorID,
	})
	if err != nil {
		return Event{}, err
	}
	return Event{Type: TypeNewComment, Payload: payload}, nil
}
