package entity

import "time"

// Notification is one entry of a user's engagement inbox.
type Notification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ActorID   string    `json:"actor_id"`
	PostID    int64     `json:"post_id,omitempty"`
	CommentID int64     `json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
