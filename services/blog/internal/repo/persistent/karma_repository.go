package persistent

import (
	"context"

	"gorm.io/gorm"
)

type KarmaRepository interface {
	Karma(ctx context.Context, userID string) (int64, error)
}

type karmaRepository struct {
	db *gorm.DB
}

func NewKarmaRepository(db *gorm.DB) KarmaRepository {
	return &karmaRepository{db: db}
}

const karmaQuery = `
SELECT
	(SELECT COUNT(*) FROM post_likes pl JOIN posts p ON p.id = pl.post_id WHERE p.author_id = ?) +
	(SELECT COUNT(*) FROM comment_likes cl JOIN comments c ON c.id = cl.comment_id WHERE c.author_id = ?)
AS karma`

// Karma counts likes received on the user's posts and comments. Nothing is cached.
func (r *karmaRepository) Karma(ctx context.Context, userID string) (int64, error) {
	var karma int64
	if err := r.db.WithContext(ctx).Raw(karmaQuery, userID, userID).Scan(&karma).Error; err != nil {
		return 0, err
	}
	return karma, nil
}
