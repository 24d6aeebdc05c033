package persistent

import (
	"time"

	"threadboard/pkg/models"
	"threadboard/services/blog/internal/entity"
)

// postRow and commentRow are scan targets for queries that join the author's username.
type postRow struct {
	ID        int64
	AuthorID  string
	Title     string
	Body      string
	Likes     int
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
}

type commentRow struct {
	ID        int64
	PostID    int64
	ParentID  *int64
	AuthorID  string
	Body      string
	Likes     int
	CreatedAt time.Time
	Depth     int
	Username  string
}

func toPostEntity(r *postRow) *entity.Post {
	return &entity.Post{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Username:  r.Username,
		Title:     r.Title,
		Body:      r.Body,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toPostModel(e *entity.Post) *models.Post {
	return &models.Post{
		ID:        e.ID,
		AuthorID:  e.AuthorID,
		Title:     e.Title,
		Body:      e.Body,
		Likes:     e.Likes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toCommentEntity(r *commentRow) *entity.Comment {
	return &entity.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		ParentID:  r.ParentID,
		AuthorID:  r.AuthorID,
		Username:  r.Username,
		Body:      r.Body,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
		Depth:     r.Depth,
	}
}

func toCommentModel(e *entity.Comment) *models.Comment {
	return &models.Comment{
		ID:        e.ID,
		PostID:    e.PostID,
		ParentID:  e.ParentID,
		AuthorID:  e.AuthorID,
		Body:      e.Body,
		Likes:     e.Likes,
		CreatedAt: e.CreatedAt,
	}
}

func toUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:        m.ID,
		Username:  m.Username,
		CreatedAt: m.CreatedAt,
	}
}
