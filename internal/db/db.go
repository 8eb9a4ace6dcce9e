package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"career-advisor/internal/config"
)

// NewPool construye el pool de Postgres a partir de la configuracion.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	maxConns := cfg.DBMaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// NewRedis devuelve nil si REDIS_ADDR no esta configurado o no responde al ping.
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Pinger es cualquier dependencia que se pueda verificar con un ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

// HealthChecker verifica Postgres y, si existe, Redis.
type HealthChecker struct {
	checks map[string]Pinger
}

func NewHealthChecker(pool Pinger, redisClient *redis.Client) *HealthChecker {
	checks := map[string]Pinger{}
	if pool != nil {
		checks["postgres"] = pool
	}
	if redisClient != nil {
		checks["redis"] = redisPinger{client: redisClient}
	}
	return &HealthChecker{checks: checks}
}

// Check devuelve el estado por dependencia y un error si alguna falla.
func (h *HealthChecker) Check(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	var errs []error
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			status[name] = "down"
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		status[name] = "up"
	}
	return status, errors.Join(errs...)
}
