package models

import "time"

// PostLike and CommentLike are membership rows: existence means the user
// currently likes the subject. They are inserted and deleted, never updated.
type PostLike struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }

type CommentLike struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	CommentID int64     `gorm:"primaryKey;autoIncrement:false;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string { return "comment_likes" }

// All lists every table model in dependency order, for AutoMigrate in tests and tooling.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &PostLike{}, &CommentLike{}}
}
