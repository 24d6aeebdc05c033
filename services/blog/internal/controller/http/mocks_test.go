package http

import (
	"context"

	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) List(ctx context.Context, viewerID string) ([]*entity.PostView, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) Create(ctx context.Context, authorID, title, body string) (*entity.PostView, error) {
	args := m.Called(ctx, authorID, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) Get(ctx context.Context, id int64, viewerID string) (*entity.PostView, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) Detail(ctx context.Context, id int64, viewerID string) (*entity.PostDetail, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) Update(ctx context.Context, id int64, userID, title, body string) (*entity.PostView, error) {
	args := m.Called(ctx, id, userID, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) Delete(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) AddComment(ctx context.Context, in entity.NewComment) (*entity.Comment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) Thread(ctx context.Context, postID int64, viewerID string) ([]*entity.CommentNode, error) {
	args := m.Called(ctx, postID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CommentNode), args.Error(1)
}

func (m *MockCommentUseCase) Subtree(ctx context.Context, commentID int64, viewerID string) (*entity.CommentNode, error) {
	args := m.Called(ctx, commentID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommentNode), args.Error(1)
}

type MockLikeUseCase struct {
	mock.Mock
}

func (m *MockLikeUseCase) Toggle(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (entity.LikeState, error) {
	args := m.Called(ctx, kind, subjectID, userID)
	return args.Get(0).(entity.LikeState), args.Error(1)
}

type MockKarmaUseCase struct {
	mock.Mock
}

func (m *MockKarmaUseCase) Karma(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKarmaUseCase) Viewer(ctx context.Context, userID string) (*entity.Viewer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Viewer), args.Error(1)
}

var (
	_ usecase.PostUseCase    = (*MockPostUseCase)(nil)
	_ usecase.CommentUseCase = (*MockCommentUseCase)(nil)
	_ usecase.LikeUseCase    = (*MockLikeUseCase)(nil)
	_ usecase.KarmaUseCase   = (*MockKarmaUseCase)(nil)
)
