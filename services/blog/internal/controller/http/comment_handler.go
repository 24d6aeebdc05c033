package http

import (
	"net/http"

	"threadboard/pkg/middleware"
	"threadboard/services/blog/internal/entity"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	Body     string `json:"body"`
	ParentID *int64 `json:"parent_id"`
}

// ListComments godoc
// @Summary      Comment tree of a post
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/{id}/comments [get]
func (h *BlogHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	thread, err := h.comments.Thread(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err, subject{postID: id}, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": thread})
}

// CreateComment godoc
// @Summary      Comment on a post
// @Description  A root comment answers with the rebuilt thread. With parent_id it is a reply and answers with the parent's subtree.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true  "Post ID"
// @Param        comment  body      CommentRequest  true  "Comment"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *BlogHandler) CreateComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.addComment(c, entity.NewComment{
		PostID:   id,
		ParentID: req.ParentID,
		AuthorID: middleware.CurrentUserID(c),
		Body:     req.Body,
	})
}

// CreateReply godoc
// @Summary      Reply to a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true  "Parent comment ID"
// @Param        comment  body      CommentRequest  true  "Reply"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]string
// @Router       /comments/{id}/replies [post]
func (h *BlogHandler) CreateReply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.addComment(c, entity.NewComment{
		ParentID: &id,
		AuthorID: middleware.CurrentUserID(c),
		Body:     req.Body,
	})
}

// addComment stores the comment and answers with the fragment that changed.
func (h *BlogHandler) addComment(c *gin.Context, in entity.NewComment) {
	ctx := c.Request.Context()
	s := subject{postID: in.PostID}
	if in.ParentID != nil {
		s.commentID = *in.ParentID
	}

	created, err := h.comments.AddComment(ctx, in)
	if err != nil {
		input := gin.H{"body": in.Body}
		if in.ParentID != nil {
			input["parent_id"] = *in.ParentID
		}
		h.respondError(c, err, s, input)
		return
	}

	if created.IsRoot() {
		thread, err := h.comments.Thread(ctx, created.PostID, in.AuthorID)
		if err != nil {
			h.respondError(c, err, s, nil)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"comments": thread})
		return
	}

	subtree, err := h.comments.Subtree(ctx, *created.ParentID, in.AuthorID)
	if err != nil {
		h.respondError(c, err, s, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": subtree})
}

// GetComment godoc
// @Summary      A comment with its replies
// @Tags         comments
// @Produce      json
// @Param        id   path      int  true  "Comment ID"
// @Success      200  {object}  entity.CommentNode
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [get]
func (h *BlogHandler) GetComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	node, err := h.comments.Subtree(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err, subject{commentID: id}, nil)
		return
	}

	c.JSON(http.StatusOK, node)
}
