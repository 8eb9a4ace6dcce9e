package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore registra los jti de refresh tokens vigentes para poder rotarlos y revocarlos.
type RefreshTokenStore interface {
	Store(ctx context.Context, jti, userID string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
	// Consume borra el jti y devuelve true solo si seguia vigente. Un jti se consume una sola vez.
	Consume(ctx context.Context, jti string) (bool, error)
}

const defaultRefreshStoreTTL = 30 * 24 * time.Hour

type memoryRefreshTokenStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{items: make(map[string]time.Time)}
}

func (s *memoryRefreshTokenStore) Store(_ context.Context, jti, _ string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultRefreshStoreTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[jti] = time.Now().UTC().Add(ttl)
	return nil
}

func (s *memoryRefreshTokenStore) Exists(_ context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(s.items, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryRefreshTokenStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, strings.TrimSpace(jti))
	return nil
}

func (s *memoryRefreshTokenStore) Consume(_ context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	delete(s.items, jti)
	return !time.Now().UTC().After(exp), nil
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRefreshTokenStore struct {
	client redisKV
	prefix string
}

// NewRedisRefreshTokenStore devuelve nil si no hay cliente; el llamador cae a memoria.
func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{client: client, prefix: "auth:refresh:"}
}

func (s *redisRefreshTokenStore) Store(ctx context.Context, jti, userID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultRefreshStoreTTL
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, userID, ttl).Err()
}

func (s *redisRefreshTokenStore) Exists(ctx context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisRefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+jti).Err()
}

func (s *redisRefreshTokenStore) Consume(ctx context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Del(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
