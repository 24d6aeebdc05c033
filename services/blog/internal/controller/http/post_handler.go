package http

import (
	"net/http"

	"threadboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type PostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListPosts godoc
// @Summary      List posts
// @Description  All posts newest first, decorated with elapsed time and the viewer's like state
// @Tags         posts
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *BlogHandler) ListPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err, subject{}, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "viewer": viewerOf(c)})
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post  body      PostRequest  true  "Title and body"
// @Success      201   {object}  entity.PostView
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /posts [post]
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Title, req.Body)
	if err != nil {
		h.respondError(c, err, subject{}, gin.H{"title": req.Title, "body": req.Body})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Post detail
// @Description  The post with its full comment tree
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  entity.PostDetail
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *BlogHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.posts.Detail(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err, subject{postID: id}, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": detail.Post, "comments": detail.Comments, "viewer": viewerOf(c)})
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Only the author may change the title and body
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Post ID"
// @Param        post  body      PostRequest  true  "Title and body"
// @Success      200   {object}  entity.PostView
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), id, middleware.CurrentUserID(c), req.Title, req.Body)
	if err != nil {
		h.respondError(c, err, subject{postID: id}, gin.H{"title": req.Title, "body": req.Body})
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.respondError(c, err, subject{postID: id}, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
