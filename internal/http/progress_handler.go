package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-advisor/internal/service"
)

type ProgressHandler struct {
	logger *zap.Logger
	svc    *service.ProgressService
}

func NewProgressHandler(logger *zap.Logger, svc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{logger: logger, svc: svc}
}

// Update maneja PUT /progress.
func (h *ProgressHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Field   string `json:"field" binding:"required"`
		Skill   string `json:"skill" binding:"required"`
		Percent *int   `json:"percent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid progress request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := h.svc.Update(c.Request.Context(), userID, req.Field, req.Skill, *req.Percent)
	if err != nil {
		if errors.Is(err, service.ErrProgressInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress"})
			return
		}
		h.logger.Error("update progress failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// Get maneja GET /progress.
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	overview, err := h.svc.Overview(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("progress overview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load progress"})
		return
	}
	c.JSON(http.StatusOK, overview)
}
