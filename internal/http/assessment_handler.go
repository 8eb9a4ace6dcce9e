package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-advisor/internal/service"
)

type AssessmentHandler struct {
	logger *zap.Logger
	svc    *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, svc: svc}
}

// Questions maneja GET /assessment/questions.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"questions": h.svc.Questions(),
		"scale":     gin.H{"min": service.LikertMin, "max": service.LikertMax},
	})
}

// Submit maneja POST /assessment.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Answers map[string]int `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), userID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAnswers),
			errors.Is(err, service.ErrUnknownQuestion),
			errors.Is(err, service.ErrAnswerOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("submit assessment failed", zap.Error(err), zap.String("user_id", userID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not score assessment"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": result})
}

// Latest maneja GET /assessment/latest.
func (h *AssessmentHandler) Latest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	result, err := h.svc.Latest(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no assessment yet"})
			return
		}
		h.logger.Error("latest assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load assessment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// History maneja GET /assessment/history.
func (h *AssessmentHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	results, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("assessment history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
