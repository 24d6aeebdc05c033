package persistent

import (
	"testing"
	"time"

	"threadboard/pkg/models"
	"threadboard/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	alice := seedUser(t, db, "alice")

	post := &entity.Post{AuthorID: alice, Title: "Hello", Body: "World", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotZero(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 0, got.Likes)
	assert.True(t, t0.Equal(got.CreatedAt))
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_List_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	alice := seedUser(t, db, "alice")

	first := seedPost(t, db, alice, t0)
	third := seedPost(t, db, alice, t0.Add(2*time.Hour))
	second := seedPost(t, db, alice, t0.Add(time.Hour))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []int64{third, second, first}, []int64{posts[0].ID, posts[1].ID, posts[2].ID})
}

func TestPostRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	alice := seedUser(t, db, "alice")
	id := seedPost(t, db, alice, t0)

	later := t0.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, id, "New title", "New body", later))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "New body", got.Body)
	assert.True(t, t0.Equal(got.CreatedAt))
	assert.True(t, later.Equal(got.UpdatedAt))

	assert.ErrorIs(t, repo.Update(ctx, 12345, "a", "b", later), ErrNotFound)
}

func TestPostRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	likes := NewLikeRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	id := seedPost(t, db, alice, t0)

	_, err := likes.Toggle(ctx, entity.KindPost, id, bob)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), memberships(t, db, &models.PostLike{}, "post_id", id))

	assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
}
