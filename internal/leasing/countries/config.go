package countries

import (
	"time"

	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/database"
	commonhttp "leasing-wizard/internal/common/http"
	"leasing-wizard/internal/common/logger"
)

// FromConfig builds the configured source: the HTTP API, wrapped in a redis
// cache when countries.cache_enabled is set. The returned close function
// releases the cache connection.
func FromConfig(cfg *config.Config, log logger.Logger) (Source, func() error, error) {
	httpSource := NewHTTPSource(
		commonhttp.NewClient(config.GetDuration(cfg.Countries.Timeout)),
		cfg.Countries.BaseURL,
		cfg.Countries.Region,
		log,
	)
	if !cfg.Countries.CacheEnabled {
		return httpSource, func() error { return nil }, nil
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return nil, nil, err
	}
	ttl := time.Duration(cfg.Countries.CacheTTL) * time.Second
	return NewCachedSource(httpSource, rdb, cfg.Countries.Region, ttl, log), rdb.Close, nil
}
