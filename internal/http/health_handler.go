package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker reporta el estado de cada dependencia ("up"/"down").
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, error)
}

type HealthHandler struct {
	logger  *zap.Logger
	checker HealthChecker
}

func NewHealthHandler(logger *zap.Logger, checker HealthChecker) *HealthHandler {
	return &HealthHandler{logger: logger, checker: checker}
}

// Healthz maneja GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if h.checker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps, err := h.checker.Check(ctx)
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": deps})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": deps})
}
