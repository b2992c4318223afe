package countries

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/models"
)

// Cache is the key/value store used by CachedSource. *database.RedisClient satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedSource serves countries from a cache and falls back to the wrapped
// source on a miss. Cache failures are logged and never fail List.
type CachedSource struct {
	next   Source
	cache  Cache
	key    string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next Source, cache Cache, region string, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		cache:  cache,
		key:    CacheKey(region),
		ttl:    ttl,
		logger: log,
	}
}

// CacheKey is the cache key for a region's country list.
func CacheKey(region string) string {
	return "countries:" + region
}

func (s *CachedSource) List(ctx context.Context) ([]models.Country, error) {
	if raw, err := s.cache.Get(ctx, s.key); err == nil {
		var cached []models.Country
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("Discarding unreadable country cache entry", map[string]interface{}{"key": s.key})
	} else {
		s.logger.Debug("Country cache miss", map[string]interface{}{"key": s.key, "reason": err.Error()})
	}

	list, err := s.next.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(list)
	if err != nil {
		s.logger.Warn("Failed to encode countries for cache", map[string]interface{}{"error": err.Error()})
		return list, nil
	}
	if err := s.cache.Set(ctx, s.key, string(payload), s.ttl); err != nil {
		s.logger.Warn("Failed to cache countries", map[string]interface{}{"key": s.key, "error": err.Error()})
	}
	return list, nil
}
