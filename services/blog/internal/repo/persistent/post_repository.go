package persistent

import (
	"context"
	"time"

	"threadboard/pkg/models"
	"threadboard/services/blog/internal/entity"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	List(ctx context.Context) ([]*entity.Post, error)
	Update(ctx context.Context, id int64, title, body string, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = "p.id, p.author_id, p.title, p.body, p.likes, p.created_at, p.updated_at, u.username"

func (r *postRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts AS p").
		Select(postColumns).
		Joins("LEFT JOIN users u ON u.id = p.author_id")
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	m := toPostModel(post)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	post.ID = m.ID
	post.CreatedAt = m.CreatedAt
	post.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	var rows []postRow
	if err := r.withAuthor(ctx).Where("p.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return toPostEntity(&rows[0]), nil
}

func (r *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	var rows []postRow
	if err := r.withAuthor(ctx).Order("p.created_at DESC, p.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(rows))
	for i := range rows {
		posts[i] = toPostEntity(&rows[i])
	}
	return posts, nil
}

// Update touches only title, body and updated_at.
func (r *postRepository) Update(ctx context.Context, id int64, title, body string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"title":      title,
			"body":       body,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post and its like memberships together. Comments are left
// in place; they become unreachable once the post is gone.
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
