package http

import (
	"net/http"

	"threadboard/pkg/middleware"
	"threadboard/services/blog/internal/entity"

	"github.com/gin-gonic/gin"
)

// TogglePostLike godoc
// @Summary      Like or unlike a post
// @Description  Flips the caller's like and answers with the new like-button state
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  entity.LikeState
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *BlogHandler) TogglePostLike(c *gin.Context) {
	h.toggle(c, entity.KindPost)
}

// ToggleCommentLike godoc
// @Summary      Like or unlike a comment
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  entity.LikeState
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id}/like [post]
func (h *BlogHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, entity.KindComment)
}

func (h *BlogHandler) toggle(c *gin.Context, kind entity.SubjectKind) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	state, err := h.likes.Toggle(c.Request.Context(), kind, id, middleware.CurrentUserID(c))
	if err != nil {
		s := subject{postID: id}
		if kind == entity.KindComment {
			s = subject{commentID: id}
		}
		h.respondError(c, err, s, nil)
		return
	}

	c.JSON(http.StatusOK, state)
}

// MyKarma godoc
// @Summary      Karma of the current user
// @Description  Likes received across the user's posts and comments
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Failure      401  {object}  map[string]string
// @Router       /users/me/karma [get]
func (h *BlogHandler) MyKarma(c *gin.Context) {
	if viewer := viewerOf(c); viewer != nil {
		c.JSON(http.StatusOK, gin.H{"karma": viewer.Karma})
		return
	}

	karma, err := h.karma.Karma(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err, subject{}, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"karma": karma})
}
