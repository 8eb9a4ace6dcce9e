package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProfileCache guarda el bloque de perfil que el asesor antepone a cada prompt,
// para no releer el ultimo assessment en cada mensaje.
//
// Get devuelve la version vigente del usuario incluso en un miss. Set solo escribe si esa
// version no cambio, asi un Invalidate concurrente no queda pisado por un perfil viejo.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (profile string, version int64, ok bool)
	Set(ctx context.Context, userID, profile string, version int64)
	Invalidate(ctx context.Context, userID string)
}

type noopProfileCache struct{}

func (noopProfileCache) Get(context.Context, string) (string, int64, bool) { return "", 0, false }
func (noopProfileCache) Set(context.Context, string, string, int64)        {}
func (noopProfileCache) Invalidate(context.Context, string)                {}

const profileVersionTTL = 7 * 24 * time.Hour

// KEYS[1]=perfil, KEYS[2]=version; ARGV[1]=perfil, ARGV[2]=version leida, ARGV[3]=ttl en ms.
var profileSetIfVersionScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[2] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`)

type redisProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisProfileCache cae a un cache no-op sin cliente. Los errores de Redis se loguean
// y se tratan como miss.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ProfileCache {
	if client == nil {
		return noopProfileCache{}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisProfileCache{client: client, ttl: ttl, prefix: "advisor:profile:", logger: logger}
}

func (c *redisProfileCache) profileKey(userID string) string { return c.prefix + userID }
func (c *redisProfileCache) versionKey(userID string) string { return c.prefix + "ver:" + userID }

func (c *redisProfileCache) Get(ctx context.Context, userID string) (string, int64, bool) {
	vals, err := c.client.MGet(ctx, c.profileKey(userID), c.versionKey(userID)).Result()
	if err != nil {
		c.logger.Warn("profile cache get failed", zap.Error(err), zap.String("user_id", userID))
		return "", -1, false
	}
	var version int64
	if raw, ok := vals[1].(string); ok {
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return "", -1, false
		}
	}
	profile, ok := vals[0].(string)
	if !ok {
		return "", version, false
	}
	return profile, version, true
}

func (c *redisProfileCache) Set(ctx context.Context, userID, profile string, version int64) {
	if version < 0 {
		return
	}
	keys := []string{c.profileKey(userID), c.versionKey(userID)}
	stored, err := profileSetIfVersionScript.Run(ctx, c.client, keys, profile, strconv.FormatInt(version, 10), c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("profile cache set failed", zap.Error(err), zap.String("user_id", userID))
		return
	}
	if stored == 0 {
		c.logger.Debug("profile cache set skipped, version changed", zap.String("user_id", userID))
	}
}

func (c *redisProfileCache) Invalidate(ctx context.Context, userID string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(userID))
		pipe.Expire(ctx, c.versionKey(userID), profileVersionTTL)
		pipe.Del(ctx, c.profileKey(userID))
		return nil
	})
	if err != nil {
		c.logger.Warn("profile cache invalidate failed", zap.Error(err), zap.String("user_id", userID))
	}
}
