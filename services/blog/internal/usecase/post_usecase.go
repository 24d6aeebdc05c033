package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"threadboard/pkg/logger"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"
)

type PostUseCase interface {
	List(ctx context.Context, viewerID string) ([]*entity.PostView, error)
	Create(ctx context.Context, authorID, title, body string) (*entity.PostView, error)
	Get(ctx context.Context, id int64, viewerID string) (*entity.PostView, error)
	Detail(ctx context.Context, id int64, viewerID string) (*entity.PostDetail, error)
	Update(ctx context.Context, id int64, userID, title, body string) (*entity.PostView, error)
	Delete(ctx context.Context, id int64, userID string) error
}

type postUseCase struct {
	posts     persistent.PostRepository
	comments  CommentUseCase
	presenter *Presenter
	logger    *logger.Logger
}

func NewPostUseCase(
	posts persistent.PostRepository,
	comments CommentUseCase,
	presenter *Presenter,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		posts:     posts,
		comments:  comments,
		presenter: presenter,
		logger:    logger,
	}
}

func validatePost(title, body string) error {
	if err := required("title", title, "Title is required."); err != nil {
		return err
	}
	return required("body", body, "Body is required.")
}

func (uc *postUseCase) List(ctx context.Context, viewerID string) ([]*entity.PostView, error) {
	posts, err := uc.posts.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list posts: %v", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return uc.presenter.Posts(ctx, viewerID, posts)
}

func (uc *postUseCase) Create(ctx context.Context, authorID, title, body string) (*entity.PostView, error) {
	if authorID == "" {
		return nil, ErrUnauthenticated
	}

	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if err := validatePost(title, body); err != nil {
		return nil, err
	}

	now := uc.presenter.Now().UTC()
	post := &entity.Post{
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.posts.Create(ctx, post); err != nil {
		uc.logger.Error("Failed to create post for user_id=%s: %v", authorID, err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return uc.Get(ctx, post.ID, authorID)
}

func (uc *postUseCase) Get(ctx context.Context, id int64, viewerID string) (*entity.PostView, error) {
	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return nil, postLookupError(err)
	}
	return uc.presenter.Post(ctx, viewerID, post)
}

func (uc *postUseCase) Detail(ctx context.Context, id int64, viewerID string) (*entity.PostDetail, error) {
	post, err := uc.Get(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	thread, err := uc.comments.Thread(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	return &entity.PostDetail{Post: post, Comments: thread}, nil
}

// owned loads a post for an owner-only mutation.
func (uc *postUseCase) owned(ctx context.Context, id int64, userID string) (*entity.Post, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	post, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return nil, postLookupError(err)
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (uc *postUseCase) Update(ctx context.Context, id int64, userID, title, body string) (*entity.PostView, error) {
	if _, err := uc.owned(ctx, id, userID); err != nil {
		return nil, err
	}

	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if err := validatePost(title, body); err != nil {
		return nil, err
	}

	if err := uc.posts.Update(ctx, id, title, body, uc.presenter.Now().UTC()); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		uc.logger.Error("Failed to update post_id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return uc.Get(ctx, id, userID)
}

func (uc *postUseCase) Delete(ctx context.Context, id int64, userID string) error {
	if _, err := uc.owned(ctx, id, userID); err != nil {
		return err
	}

	if err := uc.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrPostNotFound
		}
		uc.logger.Error("Failed to delete post_id=%d: %v", id, err)
		return fmt.Errorf("failed to delete post: %w", err)
	}

	uc.logger.Info("Post %d deleted by %s", id, userID)
	return nil
}
