package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"career-advisor/internal/metrics"
	"career-advisor/internal/service"
)

// Handlers agrupa los handlers que el router monta.
type Handlers struct {
	User       *UserHandler
	Assessment *AssessmentHandler
	Advisor    *AdvisorHandler
	Progress   *ProgressHandler
	Forum      *ForumHandler
	Health     *HealthHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, jwtSvc *service.JWTService, h Handlers, exposeMetrics bool) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metricsMiddleware())

	r.GET("/healthz", h.Health.Healthz)
	if exposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	auth := r.Group("/auth")
	auth.POST("/register", h.User.Register)
	auth.POST("/login", h.User.Login)
	auth.POST("/refresh", h.User.RefreshToken)
	auth.POST("/logout", h.User.Logout)

	r.GET("/assessment/questions", h.Assessment.Questions)
	r.GET("/forum/posts", h.Forum.ListPosts)
	r.GET("/forum/posts/:id", h.Forum.GetPost)

	protected := r.Group("/", JWTAuthMiddleware(jwtSvc))
	protected.GET("/me", h.User.Me)

	protected.POST("/assessment", h.Assessment.Submit)
	protected.GET("/assessment/latest", h.Assessment.Latest)
	protected.GET("/assessment/history", h.Assessment.History)

	protected.POST("/advisor/sessions", h.Advisor.CreateSession)
	protected.GET("/advisor/sessions", h.Advisor.ListSessions)
	protected.POST("/advisor/sessions/:id/messages", h.Advisor.PostMessage)
	protected.GET("/advisor/sessions/:id/messages", h.Advisor.ListMessages)

	protected.PUT("/progress", h.Progress.Update)
	protected.GET("/progress", h.Progress.Get)

	protected.POST("/forum/posts", h.Forum.CreatePost)
	protected.POST("/forum/posts/:id/comments", h.Forum.AddComment)
	protected.DELETE("/forum/posts/:id", h.Forum.DeletePost)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware usa la ruta registrada (no el path crudo) como label.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
