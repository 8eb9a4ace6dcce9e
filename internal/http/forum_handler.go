package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-advisor/internal/service"
)

type ForumHandler struct {
	logger *zap.Logger
	svc    *service.ForumService
}

func NewForumHandler(logger *zap.Logger, svc *service.ForumService) *ForumHandler {
	return &ForumHandler{logger: logger, svc: svc}
}

// ListPosts maneja GET /forum/posts?limit&offset.
func (h *ForumHandler) ListPosts(c *gin.Context) {
	limit, errL := queryInt(c, "limit")
	offset, errO := queryInt(c, "offset")
	if errL != nil || errO != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit and offset must be integers"})
		return
	}
	limit, offset = service.NormalizePage(limit, offset)

	posts, err := h.svc.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "limit": limit, "offset": offset})
}

// GetPost maneja GET /forum/posts/:id.
func (h *ForumHandler) GetPost(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "could not load post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost maneja POST /forum/posts.
func (h *ForumHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Title string   `json:"title" binding:"required"`
		Body  string   `json:"body" binding:"required"`
		Tags  []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), userID, service.CreatePostInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		h.writeError(c, err, "could not create post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// AddComment maneja POST /forum/posts/:id/comments.
func (h *ForumHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid comment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), userID, c.Param("id"), req.Body)
	if err != nil {
		h.writeError(c, err, "could not add comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeletePost maneja DELETE /forum/posts/:id.
func (h *ForumHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "could not delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ForumHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, service.ErrPostForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrForumInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
