package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter limita intentos de login por clave (email normalizado).
type LoginLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type memoryLoginLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time

	lastSweep time.Time
}

// NewMemoryLoginLimiter crea un limitador de ventana deslizante en memoria.
func NewMemoryLoginLimiter(window time.Duration, max int) LoginLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLoginLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryLoginLimiter) Allow(_ context.Context, key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// sweep borra las claves cuya ventana ya quedo vacia.
func (l *memoryLoginLimiter) sweep(cutoff time.Time) {
	for key, entries := range l.hits {
		if len(entries) == 0 || !entries[len(entries)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}

const redisLoginAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisLoginLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

// NewRedisLoginLimiter usa una ventana fija en Redis. Con client nil devuelve nil.
func NewRedisLoginLimiter(client *redis.Client, window time.Duration, max int) LoginLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisLoginLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "auth:login:rl:",
	}
}

// Allow deja pasar si Redis falla.
func (l *redisLoginLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisLoginAllowScript, []string{l.prefix + normalizedKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
