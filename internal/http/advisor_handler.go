package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-advisor/internal/service"
)

// AdvisorHandler expone sesiones y mensajes del asesor.
type AdvisorHandler struct {
	logger *zap.Logger
	svc    *service.AdvisorService
}

func NewAdvisorHandler(logger *zap.Logger, svc *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{logger: logger, svc: svc}
}

// CreateSession maneja POST /advisor/sessions.
func (h *AdvisorHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid create session request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	session, err := h.svc.CreateSession(c.Request.Context(), userID, req.Title)
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions maneja GET /advisor/sessions.
func (h *AdvisorHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessions, err := h.svc.ListSessions(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// PostMessage maneja POST /advisor/sessions/:id/messages.
func (h *AdvisorHandler) PostMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userMsg, reply, err := h.svc.SendMessage(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message"})
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, service.ErrSessionForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		case errors.Is(err, service.ErrAdvisorUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":        "advisor unavailable",
				"user_message": userMsg,
			})
		default:
			h.logger.Error("advisor message failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate advisor response"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_message":    userMsg,
		"advisor_message": reply,
	})
}

// ListMessages maneja GET /advisor/sessions/:id/messages.
func (h *AdvisorHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messages, err := h.svc.ListMessages(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, service.ErrSessionForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			h.logger.Error("list messages failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
