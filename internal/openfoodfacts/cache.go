package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "allergyaid:product:"

// ProductCache keeps successful lookups in Redis. A nil *ProductCache is a
// valid cache that never hits, so callers need no Redis to run.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCache{redis: client, ttl: ttl, logger: logger}
}

// Get returns the cached product for barcode. Cache errors count as misses.
func (c *ProductCache) Get(ctx context.Context, barcode string) (*Product, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, cacheKeyPrefix+barcode).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed", zap.String("barcode", barcode), zap.Error(err))
		}
		return nil, false
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("dropping undecodable cached product", zap.String("barcode", barcode), zap.Error(err))
		c.redis.Del(ctx, cacheKeyPrefix+barcode)
		return nil, false
	}
	return &p, true
}

// Set stores p for the cache TTL. Failures are logged and ignored.
func (c *ProductCache) Set(ctx context.Context, barcode string, p *Product) {
	if c == nil || p == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("failed to encode product for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, cacheKeyPrefix+barcode, data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("barcode", barcode), zap.Error(err))
	}
}
