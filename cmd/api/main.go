package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"career-advisor/internal/config"
	"career-advisor/internal/db"
	"career-advisor/internal/email"
	apihttp "career-advisor/internal/http"
	"career-advisor/internal/llm"
	"career-advisor/internal/repository"
	"career-advisor/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	redisClient, err := db.NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory stores", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewPgUserRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	progressRepo := repository.NewPgProgressRepository(pool)
	forumRepo := repository.NewPgForumRepository(pool)

	llmBase, provider := llm.NewFromConfig(ctx, cfg, logger)
	llmClient := llm.NewInstrumentedClient(llmBase, provider)
	logger.Info("llm provider selected", zap.String("provider", provider))

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	loginWindow := time.Duration(cfg.LoginRateLimitWindowMinutes) * time.Minute
	var (
		loginLimiter service.LoginLimiter
		tokenStore   service.RefreshTokenStore
	)
	if redisClient != nil {
		loginLimiter = service.NewRedisLoginLimiter(redisClient, loginWindow, cfg.LoginRateLimitMax)
		tokenStore = service.NewRedisRefreshTokenStore(redisClient)
	} else {
		loginLimiter = service.NewMemoryLoginLimiter(loginWindow, cfg.LoginRateLimitMax)
		tokenStore = service.NewMemoryRefreshTokenStore()
	}
	profileCache := service.NewRedisProfileCache(redisClient, time.Hour, logger)

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	assessmentOpts := []service.AssessmentOption{
		service.WithReportMailer(userRepo, emailSender),
		service.WithProfileCache(profileCache),
	}
	if provider != llm.ProviderDisabled {
		elaborator, err := service.NewCareerElaborator(llmClient)
		if err != nil {
			logger.Warn("career elaborator disabled", zap.Error(err))
		} else {
			assessmentOpts = append(assessmentOpts, service.WithElaborator(elaborator))
		}
	}

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	assessmentSvc := service.NewAssessmentService(
		logger,
		assessmentRepo,
		service.NewFieldRecommender(cfg.RecommenderStrategy),
		cfg.RecommenderMaxResults,
		assessmentOpts...,
	)
	advisorSvc := service.NewAdvisorService(logger, llmClient, sessionRepo, messageRepo, assessmentRepo, profileCache)
	forumSvc := service.NewForumService(logger, forumRepo)
	progressSvc := service.NewProgressService(logger, progressRepo, assessmentRepo, forumSvc)

	router := apihttp.NewRouter(logger, jwtSvc, apihttp.Handlers{
		User:       apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Assessment: apihttp.NewAssessmentHandler(logger, assessmentSvc),
		Advisor:    apihttp.NewAdvisorHandler(logger, advisorSvc),
		Progress:   apihttp.NewProgressHandler(logger, progressSvc),
		Forum:      apihttp.NewForumHandler(logger, forumSvc),
		Health:     apihttp.NewHealthHandler(logger, db.NewHealthChecker(pool, redisClient)),
	}, cfg.MetricsEnabled)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
