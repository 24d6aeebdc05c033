package persistent

import (
	"context"

	"threadboard/services/blog/internal/entity"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	// ThreadByPost returns every comment whose root ancestor belongs to the post,
	// with Depth set, ordered by depth then newest first.
	ThreadByPost(ctx context.Context, postID int64) ([]*entity.Comment, error)
	// ChildrenOf returns the direct replies of each parent, newest first.
	ChildrenOf(ctx context.Context, parentIDs []int64) (map[int64][]*entity.Comment, error)
	Lineage(ctx context.Context, id int64) (entity.Lineage, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = "c.id, c.post_id, c.parent_id, c.author_id, c.body, c.likes, c.created_at, u.username"

// Ownership is resolved from the roots down, so a stale post_id on a reply never
// pulls it into the wrong thread. The CTE carries only ids so column types come
// straight from the comments table.
const threadQuery = `
WITH RECURSIVE thread(id, depth) AS (
	SELECT id, 0 FROM comments WHERE parent_id IS NULL AND post_id = ?
	UNION ALL
	SELECT c.id, t.depth + 1 FROM comments c JOIN thread t ON c.parent_id = t.id
)
SELECT ` + commentColumns + `, thread.depth
FROM thread
JOIN comments c ON c.id = thread.id
LEFT JOIN users u ON u.id = c.author_id
ORDER BY thread.depth, c.created_at DESC, c.id DESC`

const lineageQuery = `
WITH RECURSIVE ancestry(id, parent_id, post_id, depth) AS (
	SELECT id, parent_id, post_id, 0 FROM comments WHERE id = ?
	UNION ALL
	SELECT c.id, c.parent_id, c.post_id, a.depth + 1 FROM comments c JOIN ancestry a ON c.id = a.parent_id
)
SELECT post_id, depth FROM ancestry WHERE parent_id IS NULL`

func (r *commentRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments AS c").
		Select(commentColumns).
		Joins("LEFT JOIN users u ON u.id = c.author_id")
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	m := toCommentModel(comment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	comment.ID = m.ID
	comment.CreatedAt = m.CreatedAt
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	var rows []commentRow
	if err := r.withAuthor(ctx).Where("c.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return toCommentEntity(&rows[0]), nil
}

func (r *commentRepository) ThreadByPost(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	var rows []commentRow
	if err := r.db.WithContext(ctx).Raw(threadQuery, postID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(rows))
	for i := range rows {
		comments[i] = toCommentEntity(&rows[i])
	}
	return comments, nil
}

func (r *commentRepository) ChildrenOf(ctx context.Context, parentIDs []int64) (map[int64][]*entity.Comment, error) {
	children := make(map[int64][]*entity.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return children, nil
	}

	var rows []commentRow
	err := r.withAuthor(ctx).
		Where("c.parent_id IN ?", parentIDs).
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		c := toCommentEntity(&rows[i])
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	return children, nil
}

func (r *commentRepository) Lineage(ctx context.Context, id int64) (entity.Lineage, error) {
	var rows []struct {
		PostID int64
		Depth  int
	}
	if err := r.db.WithContext(ctx).Raw(lineageQuery, id).Scan(&rows).Error; err != nil {
		return entity.Lineage{}, err
	}
	if len(rows) == 0 {
		return entity.Lineage{}, ErrNotFound
	}
	return entity.Lineage{RootPostID: rows[0].PostID, Depth: rows[0].Depth}, nil
}
