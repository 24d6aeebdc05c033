package entity

import "time"

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"author_id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is a post decorated for one viewer at one instant. It is never stored.
type PostView struct {
	Post
	Elapsed string `json:"elapsed"`
	Liked   bool   `json:"liked"`
}

type PostDetail struct {
	Post     *PostView      `json:"post"`
	Comments []*CommentNode `json:"comments"`
}
