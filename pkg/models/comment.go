package models

import "time"

// Comment rows form a forest per post. Only roots carry an authoritative PostID;
// replies inherit ownership from their root ancestor.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"not null;index:idx_comments_post_parent,priority:1" json:"post_id"`
	ParentID  *int64    `gorm:"index;index:idx_comments_post_parent,priority:2" json:"parent_id"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	Body      string    `gorm:"not null" json:"body"`
	Likes     int       `gorm:"not null;default:0;check:likes >= 0" json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
