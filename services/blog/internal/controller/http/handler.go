package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"threadboard/pkg/logger"
	"threadboard/pkg/middleware"
	"threadboard/services/blog/internal/entity"
	"threadboard/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

type BlogHandler struct {
	posts    usecase.PostUseCase
	comments usecase.CommentUseCase
	likes    usecase.LikeUseCase
	karma    usecase.KarmaUseCase
	logger   *logger.Logger
}

func NewBlogHandler(
	posts usecase.PostUseCase,
	comments usecase.CommentUseCase,
	likes usecase.LikeUseCase,
	karma usecase.KarmaUseCase,
	logger *logger.Logger,
) *BlogHandler {
	return &BlogHandler{
		posts:    posts,
		comments: comments,
		likes:    likes,
		karma:    karma,
		logger:   logger,
	}
}

// subject names the ids a request refers to, for not-found messages.
type subject struct {
	postID    int64
	commentID int64
}

func (s subject) notFoundMessage(err error) string {
	if errors.Is(err, usecase.ErrCommentNotFound) {
		if s.commentID != 0 {
			return fmt.Sprintf("Comment id %d doesn't exist.", s.commentID)
		}
		return "Comment doesn't exist."
	}
	if s.postID != 0 {
		return fmt.Sprintf("Post id %d doesn't exist.", s.postID)
	}
	return "Post doesn't exist."
}

// respondError maps usecase errors onto statuses. input is echoed back on
// validation failures so the client can re-submit it.
func (h *BlogHandler) respondError(c *gin.Context, err error, s subject, input gin.H) {
	var verr *usecase.ValidationError
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		middleware.AbortUnauthenticated(c)
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field, "input": input})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": s.notFoundMessage(err)})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to modify this post"})
	default:
		h.logger.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func viewerOf(c *gin.Context) *entity.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(*entity.Viewer); ok {
			return viewer
		}
	}
	return nil
}
