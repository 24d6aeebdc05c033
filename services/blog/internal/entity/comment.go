package entity

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	ParentID  *int64    `json:"parent_id"`
	AuthorID  string    `json:"author_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`

	// Depth is the distance from the root comment, filled by thread queries.
	Depth int `json:"-"`
}

func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// Lineage locates a comment inside its thread.
type Lineage struct {
	RootPostID int64
	Depth      int
}

// CommentNode is one decorated node of a comment tree. Children are newest first.
type CommentNode struct {
	Comment
	Level    int            `json:"level"`
	Elapsed  string         `json:"elapsed"`
	Liked    bool           `json:"liked"`
	Children []*CommentNode `json:"children"`
}

type NewComment struct {
	PostID   int64
	ParentID *int64
	AuthorID string
	Body     string
}
