package persistent

import (
	"context"
	"fmt"

	"threadboard/pkg/models"
	"threadboard/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// Toggle flips the user's membership and moves the subject's counter in one transaction.
	Toggle(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (entity.LikeState, error)
	IsLiked(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (bool, error)
	// LikedSubjects reports which of ids the user currently likes.
	LikedSubjects(ctx context.Context, kind entity.SubjectKind, userID string, ids []int64) (map[int64]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// likeTarget names the tables a subject kind touches.
type likeTarget struct {
	subject    interface{}
	membership interface{}
	column     string
	newLike    func(subjectID int64, userID string) interface{}
}

func targetFor(kind entity.SubjectKind) (likeTarget, error) {
	switch kind {
	case entity.KindPost:
		return likeTarget{
			subject:    &models.Post{},
			membership: &models.PostLike{},
			column:     "post_id",
			newLike: func(id int64, userID string) interface{} {
				return &models.PostLike{UserID: userID, PostID: id}
			},
		}, nil
	case entity.KindComment:
		return likeTarget{
			subject:    &models.Comment{},
			membership: &models.CommentLike{},
			column:     "comment_id",
			newLike: func(id int64, userID string) interface{} {
				return &models.CommentLike{UserID: userID, CommentID: id}
			},
		}, nil
	}
	return likeTarget{}, fmt.Errorf("unknown subject kind %q", kind)
}

func (r *likeRepository) Toggle(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (entity.LikeState, error) {
	t, err := targetFor(kind)
	if err != nil {
		return entity.LikeState{}, err
	}

	var state entity.LikeState
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subject struct{ Likes int }
		lock := tx.Model(t.subject).Select("likes").Where("id = ?", subjectID)
		if tx.Dialector.Name() == "postgres" {
			lock = lock.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := lock.Take(&subject).Error; err != nil {
			return translate(err)
		}

		var members int64
		if err := tx.Model(t.membership).
			Where(t.column+" = ? AND user_id = ?", subjectID, userID).
			Count(&members).Error; err != nil {
			return err
		}

		counter := gorm.Expr("likes + 1")
		if members > 0 {
			if err := tx.Where(t.column+" = ? AND user_id = ?", subjectID, userID).Delete(t.membership).Error; err != nil {
				return err
			}
			counter = gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")
		} else {
			if err := tx.Create(t.newLike(subjectID, userID)).Error; err != nil {
				return err
			}
			state.Liked = true
		}

		if err := tx.Model(t.subject).Where("id = ?", subjectID).UpdateColumn("likes", counter).Error; err != nil {
			return err
		}

		if err := tx.Model(t.subject).Select("likes").Where("id = ?", subjectID).Take(&subject).Error; err != nil {
			return err
		}
		state.Count = subject.Likes
		return nil
	})
	if err != nil {
		return entity.LikeState{}, err
	}
	return state, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (bool, error) {
	t, err := targetFor(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(t.membership).
		Where(t.column+" = ? AND user_id = ?", subjectID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) LikedSubjects(ctx context.Context, kind entity.SubjectKind, userID string, ids []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(ids))
	if userID == "" || len(ids) == 0 {
		return liked, nil
	}

	t, err := targetFor(kind)
	if err != nil {
		return nil, err
	}

	var found []int64
	err = r.db.WithContext(ctx).
		Model(t.membership).
		Where("user_id = ? AND "+t.column+" IN ?", userID, ids).
		Pluck(t.column, &found).Error
	if err != nil {
		return nil, err
	}

	for _, id := range found {
		liked[id] = true
	}
	return liked, nil
}
