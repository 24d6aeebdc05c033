package usecase

import (
	"context"
	"sort"
	"time"

	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"

	"github.com/graph-gophers/dataloader/v7"
)

func newNode(c *entity.Comment, level int) *entity.CommentNode {
	return &entity.CommentNode{
		Comment:  *c,
		Level:    level,
		Children: []*entity.CommentNode{},
	}
}

func newerFirst(nodes []*entity.CommentNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].CreatedAt.After(nodes[j].CreatedAt)
		}
		return nodes[i].ID > nodes[j].ID
	})
}

// BuildThread assembles flat comment rows into trees. Roots get level 0 and
// each reply sits one level below its parent. Rows whose parent is not in the
// set are dropped along with their descendants. Every sibling list is newest first.
func BuildThread(comments []*entity.Comment) []*entity.CommentNode {
	nodes := make(map[int64]*entity.CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = newNode(c, 0)
	}

	roots := []*entity.CommentNode{}
	for _, c := range comments {
		n := nodes[c.ID]
		if c.IsRoot() {
			roots = append(roots, n)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}

	var settle func(level int, siblings []*entity.CommentNode)
	settle = func(level int, siblings []*entity.CommentNode) {
		newerFirst(siblings)
		for _, n := range siblings {
			n.Level = level
			settle(level+1, n.Children)
		}
	}
	settle(0, roots)

	return roots
}

type childLoader = dataloader.Loader[int64, []*entity.Comment]

// newChildLoader batches every ChildrenOf lookup issued while one tree level is
// being expanded into a single query.
func newChildLoader(repo persistent.CommentRepository) *childLoader {
	batch := func(ctx context.Context, parentIDs []int64) []*dataloader.Result[[]*entity.Comment] {
		children, err := repo.ChildrenOf(ctx, parentIDs)

		results := make([]*dataloader.Result[[]*entity.Comment], len(parentIDs))
		for i, id := range parentIDs {
			if err != nil {
				results[i] = &dataloader.Result[[]*entity.Comment]{Error: err}
				continue
			}
			results[i] = &dataloader.Result[[]*entity.Comment]{Data: children[id]}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batch,
		dataloader.WithWait[int64, []*entity.Comment](time.Millisecond),
	)
}

// expandSubtree attaches all descendants of top, one query per level.
func expandSubtree(ctx context.Context, loader *childLoader, top *entity.CommentNode) error {
	frontier := []*entity.CommentNode{top}
	for len(frontier) > 0 {
		keys := make([]int64, len(frontier))
		for i, n := range frontier {
			keys[i] = n.ID
		}

		children, errs := loader.LoadMany(ctx, keys)()
		for _, err := range errs {
			if err != nil {
				return err
			}
		}

		var next []*entity.CommentNode
		for i, parent := range frontier {
			for _, c := range children[i] {
				child := newNode(c, parent.Level+1)
				parent.Children = append(parent.Children, child)
				next = append(next, child)
			}
			newerFirst(parent.Children)
		}
		frontier = next
	}
	return nil
}
