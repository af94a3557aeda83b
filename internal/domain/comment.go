package domain

import "time"

// Comment is attached to an article and carried whole inside the new_comment
// fan-out event.
type Comment struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resourceId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	ParentID   string    `json:"parentId,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
