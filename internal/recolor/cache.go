package recolor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/go-redis/redis/v8"
)

// cacheTTL bounds how long a recolored raster stays cached. Garment mockups
// change rarely; an hour keeps repeat color flips cheap without letting
// stale art linger.
const cacheTTL = time.Hour

// Cache stores recolored rasters by key. A Get miss returns a nil slice and
// no error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache adapts go-redis to the Cache interface
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache creates a Redis-backed recolor cache
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get returns the cached raster for a key, or nil on a miss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores a raster under a key with a TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedEngine wraps an Engine with a byte cache keyed by source digest and
// target color, so flipping back to a recently used color skips the pixel
// pass. Cache failures fall through to a fresh recolor.
type CachedEngine struct {
	engine *Engine
	cache  Cache
	logger *zap.Logger
}

// NewCachedEngine creates a recolor engine backed by a result cache
func NewCachedEngine(engine *Engine, cache Cache) *CachedEngine {
	return &CachedEngine{
		engine: engine,
		cache:  cache,
		logger: engine.logger,
	}
}

// Recolor returns the cached raster for this source and color when present,
// otherwise recolors and stores the result.
func (ce *CachedEngine) Recolor(src []byte, targetHex string) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := cacheKey(src, targetHex)
	cached, err := ce.cache.Get(ctx, key)
	if err != nil {
		ce.logger.Debug("Recolor cache read failed", zap.Error(err))
	}
	if len(cached) > 0 {
		return cached
	}

	out := ce.engine.Recolor(src, targetHex)

	if err := ce.cache.Set(ctx, key, out, cacheTTL); err != nil {
		ce.logger.Debug("Failed to cache recolor result", zap.Error(err))
	}
	return out
}

func cacheKey(src []byte, targetHex string) string {
	sum := sha256.Sum256(src)
	color := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(targetHex), "#"))
	return "recolor:" + hex.EncodeToString(sum[:8]) + ":" + color
}
