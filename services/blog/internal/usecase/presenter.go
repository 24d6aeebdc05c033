package usecase

import (
	"context"
	"fmt"
	"time"

	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"
)

// Elapsed renders now-created with the largest unit whose threshold is strictly
// exceeded. Future timestamps count as zero.
func Elapsed(created, now time.Time) string {
	secs := int64(now.Sub(created) / time.Second)
	if secs < 0 {
		secs = 0
	}

	switch {
	case secs > 86400:
		return fmt.Sprintf("%d days ago", secs/86400)
	case secs > 3600:
		return fmt.Sprintf("%d hours ago", secs/3600)
	case secs > 60:
		return fmt.Sprintf("%d minutes ago", secs/60)
	default:
		return fmt.Sprintf("%d seconds ago", secs)
	}
}

// Presenter attaches request-time fields to copies of stored records.
type Presenter struct {
	likes persistent.LikeRepository
	now   func() time.Time
}

func NewPresenter(likes persistent.LikeRepository, now func() time.Time) *Presenter {
	if now == nil {
		now = time.Now
	}
	return &Presenter{likes: likes, now: now}
}

func (p *Presenter) Now() time.Time {
	return p.now()
}

func (p *Presenter) Posts(ctx context.Context, viewerID string, posts []*entity.Post) ([]*entity.PostView, error) {
	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}

	liked, err := p.likes.LikedSubjects(ctx, entity.KindPost, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load post likes: %w", err)
	}

	now := p.now()
	views := make([]*entity.PostView, len(posts))
	for i, post := range posts {
		views[i] = &entity.PostView{
			Post:    *post,
			Elapsed: Elapsed(post.CreatedAt, now),
			Liked:   liked[post.ID],
		}
	}
	return views, nil
}

func (p *Presenter) Post(ctx context.Context, viewerID string, post *entity.Post) (*entity.PostView, error) {
	views, err := p.Posts(ctx, viewerID, []*entity.Post{post})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Comments decorates every node of the given trees in place. Liked flags come
// from one membership lookup for the whole set.
func (p *Presenter) Comments(ctx context.Context, viewerID string, roots []*entity.CommentNode) error {
	var ids []int64
	walk(roots, func(n *entity.CommentNode) { ids = append(ids, n.ID) })

	liked, err := p.likes.LikedSubjects(ctx, entity.KindComment, viewerID, ids)
	if err != nil {
		return fmt.Errorf("failed to load comment likes: %w", err)
	}

	now := p.now()
	walk(roots, func(n *entity.CommentNode) {
		n.Elapsed = Elapsed(n.CreatedAt, now)
		n.Liked = liked[n.ID]
	})
	return nil
}

func walk(nodes []*entity.CommentNode, fn func(*entity.CommentNode)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Children, fn)
	}
}
