package usecase

import (
	"context"
	"errors"
	"fmt"

	"threadboard/pkg/logger"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"
)

type KarmaUseCase interface {
	Karma(ctx context.Context, userID string) (int64, error)
	// Viewer resolves the authenticated user and computes their karma for this request.
	Viewer(ctx context.Context, userID string) (*entity.Viewer, error)
}

type karmaUseCase struct {
	karma  persistent.KarmaRepository
	users  persistent.UserRepository
	logger *logger.Logger
}

func NewKarmaUseCase(karma persistent.KarmaRepository, users persistent.UserRepository, logger *logger.Logger) KarmaUseCase {
	return &karmaUseCase{karma: karma, users: users, logger: logger}
}

func (uc *karmaUseCase) Karma(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}

	karma, err := uc.karma.Karma(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to compute karma for user_id=%s: %v", userID, err)
		return 0, fmt.Errorf("failed to compute karma: %w", err)
	}
	return karma, nil
}

// StrictViewer marks ctx so Viewer checks the user against the store even when
// a cached copy exists.
func StrictViewer(ctx context.Context) context.Context {
	return persistent.WithFreshRead(ctx)
}

func (uc *karmaUseCase) Viewer(ctx context.Context, userID string) (*entity.Viewer, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		// a valid token for a user that no longer exists
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	karma, err := uc.Karma(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entity.Viewer{ID: user.ID, Username: user.Username, Karma: karma}, nil
}
