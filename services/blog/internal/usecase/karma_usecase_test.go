package usecase

import (
	"context"
	"testing"

	"threadboard/pkg/logger"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKarmaUseCase_Viewer(t *testing.T) {
	karma := new(MockKarmaRepository)
	users := new(MockUserRepository)
	uc := NewKarmaUseCase(karma, users, logger.NewNop())

	users.On("GetByID", mock.Anything, "alice").Return(&entity.User{ID: "alice", Username: "Alice"}, nil)
	karma.On("Karma", mock.Anything, "alice").Return(int64(5), nil)

	viewer, err := uc.Viewer(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &entity.Viewer{ID: "alice", Username: "Alice", Karma: 5}, viewer)
}

func TestKarmaUseCase_Viewer_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	uc := NewKarmaUseCase(new(MockKarmaRepository), users, logger.NewNop())
	users.On("GetByID", mock.Anything, "ghost").Return(nil, persistent.ErrNotFound)

	_, err := uc.Viewer(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestKarmaUseCase_Karma_Unauthenticated(t *testing.T) {
	uc := NewKarmaUseCase(new(MockKarmaRepository), new(MockUserRepository), logger.NewNop())

	_, err := uc.Karma(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
