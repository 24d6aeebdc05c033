package usecase

import (
	"context"
	"sync"
	"time"

	"threadboard/pkg/queue"
	"threadboard/services/blog/internal/entity"

	"github.com/stretchr/testify/mock"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*entity.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, id int64, title, body string, updatedAt time.Time) error {
	args := m.Called(ctx, id, title, body, updatedAt)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) ThreadByPost(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) ChildrenOf(ctx context.Context, parentIDs []int64) (map[int64][]*entity.Comment, error) {
	args := m.Called(ctx, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]*entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) Lineage(ctx context.Context, id int64) (entity.Lineage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Lineage), args.Error(1)
}

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Toggle(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (entity.LikeState, error) {
	args := m.Called(ctx, kind, subjectID, userID)
	return args.Get(0).(entity.LikeState), args.Error(1)
}

func (m *MockLikeRepository) IsLiked(ctx context.Context, kind entity.SubjectKind, subjectID int64, userID string) (bool, error) {
	args := m.Called(ctx, kind, subjectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) LikedSubjects(ctx context.Context, kind entity.SubjectKind, userID string, ids []int64) (map[int64]bool, error) {
	args := m.Called(ctx, kind, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

type MockKarmaRepository struct {
	mock.Mock
}

func (m *MockKarmaRepository) Karma(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// recordingPublisher collects events published from background goroutines.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.EngagementEvent
	err    error
}

func (p *recordingPublisher) PublishEngagementEvent(event queue.EngagementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []queue.EngagementEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.EngagementEvent(nil), p.events...)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
