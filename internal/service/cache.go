package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"

	"github.com/go-redis/redis/v8"
)

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) CatalogCache {
	return &redisCatalogCache{client: client, ttl: ttl}
}

func extrasKey(etablissementID int32, actifOnly bool) string {
	return fmt.Sprintf("extras:%d:%t", etablissementID, actifOnly)
}

func (c *redisCatalogCache) GetExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, bool) {
	key := extrasKey(etablissementID, actifOnly)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WarnContext(ctx, "Catalog cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var extras []domain.Extra
	if err := json.Unmarshal(data, &extras); err != nil {
		logger.WarnContext(ctx, "Catalog cache entry corrupted", "key", key, "error", err)
		return nil, false
	}
	logger.DebugContext(ctx, "Catalog cache hit", "key", key, "count", len(extras))
	return extras, true
}

func (c *redisCatalogCache) SetExtras(ctx context.Context, etablissementID int32, actifOnly bool, extras []domain.Extra) {
	data, err := json.Marshal(extras)
	if err != nil {
		return
	}
	key := extrasKey(etablissementID, actifOnly)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.WarnContext(ctx, "Catalog cache write failed", "key", key, "error", err)
	}
}

// InvalidateExtras drops the listings of the property and the unscoped
// listings, which also contain its extras.
func (c *redisCatalogCache) InvalidateExtras(ctx context.Context, etablissementID int32) {
	keys := []string{
		extrasKey(etablissementID, true), extrasKey(etablissementID, false),
		extrasKey(0, true), extrasKey(0, false),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.WarnContext(ctx, "Catalog cache invalidation failed", "etablissement_id", etablissementID, "error", err)
	}
}

type noopCatalogCache struct{}

// NewNoopCatalogCache returns a cache that never hits, used when Redis is
// not configured.
func NewNoopCatalogCache() CatalogCache {
	return noopCatalogCache{}
}

func (noopCatalogCache) GetExtras(context.Context, int32, bool) ([]domain.Extra, bool) {
	return nil, false
}

func (noopCatalogCache) SetExtras(context.Context, int32, bool, []domain.Extra) {}

func (noopCatalogCache) InvalidateExtras(context.Context, int32) {}
