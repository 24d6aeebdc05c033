package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"threadboard/pkg/logger"
	"threadboard/pkg/queue"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"
)

type CommentUseCase interface {
	// AddComment stores a root comment (ParentID nil) or a reply. A reply's post
	// is taken from its root ancestor; a non-zero PostID must agree with it.
	AddComment(ctx context.Context, in entity.NewComment) (*entity.Comment, error)
	// Thread returns the decorated comment forest of a post. A post without
	// comments, or without a row at all, yields an empty forest.
	Thread(ctx context.Context, postID int64, viewerID string) ([]*entity.CommentNode, error)
	// Subtree returns one comment with all its descendants at their absolute levels.
	Subtree(ctx context.Context, commentID int64, viewerID string) (*entity.CommentNode, error)
}

type commentUseCase struct {
	comments  persistent.CommentRepository
	posts     persistent.PostRepository
	presenter *Presenter
	notifier  *notifier
	logger    *logger.Logger
}

func NewCommentUseCase(
	comments persistent.CommentRepository,
	posts persistent.PostRepository,
	presenter *Presenter,
	publisher EventPublisher,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		comments:  comments,
		posts:     posts,
		presenter: presenter,
		notifier:  &notifier{publisher: publisher, logger: logger},
		logger:    logger,
	}
}

func (uc *commentUseCase) AddComment(ctx context.Context, in entity.NewComment) (*entity.Comment, error) {
	if in.AuthorID == "" {
		return nil, ErrUnauthenticated
	}

	body := strings.TrimSpace(in.Body)
	if err := required("body", body, "Comment is required."); err != nil {
		return nil, err
	}

	postID := in.PostID
	var parent *entity.Comment
	if in.ParentID != nil {
		var err error
		parent, err = uc.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, commentLookupError(err)
		}

		lineage, err := uc.comments.Lineage(ctx, parent.ID)
		if err != nil {
			return nil, commentLookupError(err)
		}
		if postID != 0 && postID != lineage.RootPostID {
			return nil, ErrCommentNotFound
		}
		postID = lineage.RootPostID
	}

	if _, err := uc.posts.GetByID(ctx, postID); err != nil {
		return nil, postLookupError(err)
	}

	comment := &entity.Comment{
		PostID:    postID,
		ParentID:  in.ParentID,
		AuthorID:  in.AuthorID,
		Body:      body,
		CreatedAt: uc.presenter.Now().UTC(),
	}
	if err := uc.comments.Create(ctx, comment); err != nil {
		uc.logger.Error("Failed to create comment on post_id=%d: %v", postID, err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if parent != nil {
		uc.notifier.notify(queue.EngagementEvent{
			Type:      queue.EventCommentReplied,
			UserID:    parent.AuthorID,
			ActorID:   in.AuthorID,
			PostID:    postID,
			CommentID: comment.ID,
			Priority:  4,
		})
	}

	return comment, nil
}

func (uc *commentUseCase) Thread(ctx context.Context, postID int64, viewerID string) ([]*entity.CommentNode, error) {
	rows, err := uc.comments.ThreadByPost(ctx, postID)
	if err != nil {
		uc.logger.Error("Failed to load thread for post_id=%d: %v", postID, err)
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	roots := BuildThread(rows)
	if err := uc.presenter.Comments(ctx, viewerID, roots); err != nil {
		return nil, err
	}
	return roots, nil
}

func (uc *commentUseCase) Subtree(ctx context.Context, commentID int64, viewerID string) (*entity.CommentNode, error) {
	comment, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, commentLookupError(err)
	}

	lineage, err := reachableLineage(ctx, uc.comments, uc.posts, commentID)
	if err != nil {
		return nil, err
	}

	top := newNode(comment, lineage.Depth)
	if err := expandSubtree(ctx, newChildLoader(uc.comments), top); err != nil {
		uc.logger.Error("Failed to load replies of comment_id=%d: %v", commentID, err)
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}

	if err := uc.presenter.Comments(ctx, viewerID, []*entity.CommentNode{top}); err != nil {
		return nil, err
	}
	return top, nil
}

// reachableLineage resolves the comment's root post and fails with
// ErrCommentNotFound once that post has been deleted.
func reachableLineage(ctx context.Context, comments persistent.CommentRepository, posts persistent.PostRepository, commentID int64) (entity.Lineage, error) {
	lineage, err := comments.Lineage(ctx, commentID)
	if err != nil {
		return entity.Lineage{}, commentLookupError(err)
	}

	if _, err := posts.GetByID(ctx, lineage.RootPostID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return entity.Lineage{}, ErrCommentNotFound
		}
		return entity.Lineage{}, fmt.Errorf("failed to load post: %w", err)
	}
	return lineage, nil
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
