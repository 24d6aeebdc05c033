package usecase

import (
	"context"
	"errors"
	"fmt"

	"threadboard/pkg/logger"
	"threadboard/pkg/metrics"
	"threadboard/pkg/queue"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"
)

type LikeUseCase interface {
	Toggle(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (entity.LikeState, error)
}

type likeUseCase struct {
	likes    persistent.LikeRepository
	posts    persistent.PostRepository
	comments persistent.CommentRepository
	notifier *notifier
	logger   *logger.Logger
}

func NewLikeUseCase(
	likes persistent.LikeRepository,
	posts persistent.PostRepository,
	comments persistent.CommentRepository,
	publisher EventPublisher,
	logger *logger.Logger,
) LikeUseCase {
	return &likeUseCase{
		likes:    likes,
		posts:    posts,
		comments: comments,
		notifier: &notifier{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

func (uc *likeUseCase) Toggle(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (entity.LikeState, error) {
	if userID == "" {
		return entity.LikeState{}, ErrUnauthenticated
	}

	authorID, err := uc.subjectAuthor(ctx, kind, subjectID)
	if err != nil {
		return entity.LikeState{}, err
	}

	state, err := uc.likes.Toggle(ctx, kind, subjectID, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return entity.LikeState{}, notFoundFor(kind)
		}
		uc.logger.Error("Failed to toggle %s like: subject_id=%d, user_id=%s: %v", kind, subjectID, userID, err)
		return entity.LikeState{}, fmt.Errorf("failed to toggle like: %w", err)
	}

	action := "unlike"
	if state.Liked {
		action = "like"
	}
	metrics.LikeToggles.WithLabelValues(string(kind), action).Inc()

	if state.Liked {
		event := queue.EngagementEvent{UserID: authorID, ActorID: userID, Priority: 3}
		if kind == entity.KindPost {
			event.Type = queue.EventPostLiked
			event.PostID = subjectID
		} else {
			event.Type = queue.EventCommentLiked
			event.CommentID = subjectID
		}
		uc.notifier.notify(event)
	}

	return state, nil
}

func (uc *likeUseCase) subjectAuthor(ctx context.Context, kind entity.SubjectKind, id int64) (string, error) {
	switch kind {
	case entity.KindPost:
		post, err := uc.posts.GetByID(ctx, id)
		if err != nil {
			return "", postLookupError(err)
		}
		return post.AuthorID, nil
	case entity.KindComment:
		comment, err := uc.comments.GetByID(ctx, id)
		if err != nil {
			return "", commentLookupError(err)
		}
		if _, err := reachableLineage(ctx, uc.comments, uc.posts, id); err != nil {
			return "", err
		}
		return comment.AuthorID, nil
	}
	return "", fmt.Errorf("unknown subject kind %q", kind)
}

func notFoundFor(kind entity.SubjectKind) error {
	if kind == entity.KindComment {
		return ErrCommentNotFound
	}
	return ErrPostNotFound
}

func postLookupError(err error) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrPostNotFound
	}
	return fmt.Errorf("failed to load post: %w", err)
}

func commentLookupError(err error) error {
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrCommentNotFound
	}
	return fmt.Errorf("failed to load comment: %w", err)
}
