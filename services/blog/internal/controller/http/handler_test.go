package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"threadboard/pkg/logger"
	"threadboard/pkg/middleware"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/repo/persistent"
	"threadboard/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler  *BlogHandler
	posts    *MockPostUseCase
	comments *MockCommentUseCase
	likes    *MockLikeUseCase
	karma    *MockKarmaUseCase
}

func newFixture() *fixture {
	f := &fixture{
		posts:    new(MockPostUseCase),
		comments: new(MockCommentUseCase),
		likes:    new(MockLikeUseCase),
		karma:    new(MockKarmaUseCase),
	}
	f.handler = NewBlogHandler(f.posts, f.comments, f.likes, f.karma, logger.NewNop())
	return f
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// as injects an identity the way the auth middleware would.
func as(userID string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		h(c)
	}
}

func do(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestTogglePostLike_Like(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/posts/:id/like", as("user-123", f.handler.TogglePostLike))

	f.likes.On("Toggle", mock.Anything, entity.KindPost, int64(5), "user-123").Return(entity.LikeState{Liked: true, Count: 3}, nil)

	w := do(router, "POST", "/posts/5/like", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, true, response["liked"])
	assert.Equal(t, float64(3), response["count"])
	f.likes.AssertExpectations(t)
}

func TestTogglePostLike_Unauthenticated(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/posts/:id/like", as("", f.handler.TogglePostLike))

	f.likes.On("Toggle", mock.Anything, entity.KindPost, int64(5), "").Return(entity.LikeState{}, usecase.ErrUnauthenticated)

	w := do(router, "POST", "/posts/5/like", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, middleware.LoginPath, decode(t, w)["login_url"])
}

func TestToggleCommentLike_NotFound(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/comments/:id/like", as("u", f.handler.ToggleCommentLike))

	f.likes.On("Toggle", mock.Anything, entity.KindComment, int64(8), "u").Return(entity.LikeState{}, usecase.ErrCommentNotFound)

	w := do(router, "POST", "/comments/8/like", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Comment id 8 doesn't exist.", decode(t, w)["error"])
}

func TestInvalidID(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.GET("/posts/:id", f.handler.GetPost)

	w := do(router, "GET", "/posts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.posts.AssertNotCalled(t, "Detail", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPost_NotFound(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.GET("/posts/:id", f.handler.GetPost)

	f.posts.On("Detail", mock.Anything, int64(42), "").Return(nil, usecase.ErrPostNotFound)

	w := do(router, "GET", "/posts/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post id 42 doesn't exist.", decode(t, w)["error"])
}

func TestGetPost_Detail(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.GET("/posts/:id", func(c *gin.Context) {
		c.Set(viewerKey, &entity.Viewer{ID: "u", Username: "bob", Karma: 7})
		as("u", f.handler.GetPost)(c)
	})

	detail := &entity.PostDetail{
		Post: &entity.PostView{Post: entity.Post{ID: 1, Title: "P"}, Elapsed: "1 hours ago"},
		Comments: []*entity.CommentNode{{
			Comment:  entity.Comment{ID: 3, Body: "nice"},
			Children: []*entity.CommentNode{{Comment: entity.Comment{ID: 4, Body: "thanks"}, Level: 1, Children: []*entity.CommentNode{}}},
		}},
	}
	f.posts.On("Detail", mock.Anything, int64(1), "u").Return(detail, nil)

	w := do(router, "GET", "/posts/1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, "P", response["post"].(map[string]interface{})["title"])
	comments := response["comments"].([]interface{})
	require.Len(t, comments, 1)
	child := comments[0].(map[string]interface{})["children"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(1), child["level"])
	assert.Equal(t, float64(7), response["viewer"].(map[string]interface{})["karma"])
}

func TestCreatePost_ValidationEchoesInput(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/posts", as("alice", f.handler.CreatePost))

	f.posts.On("Create", mock.Anything, "alice", "", "draft body").
		Return(nil, &usecase.ValidationError{Field: "title", Message: "Title is required."})

	w := do(router, "POST", "/posts", gin.H{"title": "", "body": "draft body"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decode(t, w)
	assert.Equal(t, "Title is required.", response["error"])
	assert.Equal(t, "title", response["field"])
	assert.Equal(t, "draft body", response["input"].(map[string]interface{})["body"])
}

func TestCreatePost_Success(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/posts", as("alice", f.handler.CreatePost))

	f.posts.On("Create", mock.Anything, "alice", "Hello", "World").
		Return(&entity.PostView{Post: entity.Post{ID: 9, Title: "Hello"}}, nil)

	w := do(router, "POST", "/posts", gin.H{"title": "Hello", "body": "World"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(9), decode(t, w)["id"])
}

func TestUpdatePost_Forbidden(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.PUT("/posts/:id", as("bob", f.handler.UpdatePost))

	f.posts.On("Update", mock.Anything, int64(1), "bob", "t", "b").Return(nil, usecase.ErrForbidden)

	w := do(router, "PUT", "/posts/1", gin.H{"title": "t", "body": "b"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.DELETE("/posts/:id", as("alice", f.handler.DeletePost))

	f.posts.On("Delete", mock.Anything, int64(1), "alice").Return(nil)
	f.posts.On("Delete", mock.Anything, int64(2), "alice").Return(errors.New("db down"))

	assert.Equal(t, http.StatusOK, do(router, "DELETE", "/posts/1", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(router, "DELETE", "/posts/2", nil).Code)
}

func TestCreateComment_RootReturnsThread(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/posts/:id/comments", as("bob", f.handler.CreateComment))

	f.comments.On("AddComment", mock.Anything, entity.NewComment{PostID: 1, AuthorID: "bob", Body: "nice"}).
		Return(&entity.Comment{ID: 3, PostID: 1}, nil)
	f.comments.On("Thread", mock.Anything, int64(1), "bob").
		Return([]*entity.CommentNode{{Comment: entity.Comment{ID: 3, Body: "nice"}}}, nil)

	w := do(router, "POST", "/posts/1/comments", gin.H{"body": "nice"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, decode(t, w)["comments"], 1)
	f.comments.AssertNotCalled(t, "Subtree", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReply_ReturnsParentSubtree(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/comments/:id/replies", as("alice", f.handler.CreateReply))

	parent := int64(3)
	f.comments.On("AddComment", mock.Anything, entity.NewComment{ParentID: &parent, AuthorID: "alice", Body: "thanks"}).
		Return(&entity.Comment{ID: 4, PostID: 1, ParentID: &parent}, nil)
	f.comments.On("Subtree", mock.Anything, int64(3), "alice").
		Return(&entity.CommentNode{Comment: entity.Comment{ID: 3}, Children: []*entity.CommentNode{{Comment: entity.Comment{ID: 4}, Level: 1}}}, nil)

	w := do(router, "POST", "/comments/3/replies", gin.H{"body": "thanks"})

	assert.Equal(t, http.StatusCreated, w.Code)
	node := decode(t, w)["comment"].(map[string]interface{})
	assert.Equal(t, float64(3), node["id"])
	assert.Len(t, node["children"], 1)
}

func TestCreateReply_EmptyBody(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.POST("/comments/:id/replies", as("alice", f.handler.CreateReply))

	parent := int64(3)
	f.comments.On("AddComment", mock.Anything, entity.NewComment{ParentID: &parent, AuthorID: "alice", Body: " "}).
		Return(nil, &usecase.ValidationError{Field: "body", Message: "Comment is required."})

	w := do(router, "POST", "/comments/3/replies", gin.H{"body": " "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decode(t, w)
	assert.Equal(t, float64(3), response["input"].(map[string]interface{})["parent_id"])
}

func TestMyKarma_UsesViewer(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.GET("/users/me/karma", func(c *gin.Context) {
		c.Set(viewerKey, &entity.Viewer{ID: "a", Karma: 4})
		as("a", f.handler.MyKarma)(c)
	})

	w := do(router, "GET", "/users/me/karma", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["karma"])
	f.karma.AssertNotCalled(t, "Karma", mock.Anything, mock.Anything)
}

func TestViewerMiddleware(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			c.Set(middleware.UserIDKey, id)
		}
	}, ViewerMiddleware(f.karma, logger.NewNop()))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.CurrentUserID(c), "viewer": viewerOf(c)})
	})

	f.karma.On("Viewer", mock.Anything, "alice").Return(&entity.Viewer{ID: "alice", Username: "alice", Karma: 2}, nil)
	f.karma.On("Viewer", mock.Anything, "ghost").Return(nil, usecase.ErrUnauthenticated)
	f.karma.On("Viewer", mock.Anything, "broken").Return(nil, errors.New("db down"))

	request := func(user string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		router.ServeHTTP(w, req)
		return w
	}

	w := request("alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["viewer"].(map[string]interface{})["karma"])

	w = request("ghost")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["user_id"])

	w = request("")
	assert.Nil(t, decode(t, w)["viewer"])

	assert.Equal(t, http.StatusInternalServerError, request("broken").Code)
}

func TestViewerMiddleware_WritesCheckTheStore(t *testing.T) {
	f := newFixture()
	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "gone")
	}, ViewerMiddleware(f.karma, logger.NewNop()))
	router.GET("/posts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.CurrentUserID(c)})
	})
	router.POST("/posts", middleware.RequireUser(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	// the cache still holds the deleted user, the store does not
	cached := mock.MatchedBy(func(ctx context.Context) bool { return !persistent.IsFreshRead(ctx) })
	fresh := mock.MatchedBy(func(ctx context.Context) bool { return persistent.IsFreshRead(ctx) })
	f.karma.On("Viewer", cached, "gone").Return(&entity.Viewer{ID: "gone", Username: "gone"}, nil)
	f.karma.On("Viewer", fresh, "gone").Return(nil, usecase.ErrUnauthenticated)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gone", decode(t, w)["user_id"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/posts", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/api/v1/auth/login", decode(t, w)["login_url"])
}
