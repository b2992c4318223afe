// internal/workers/leasing/index-lease-application/config.go
package indexleaseapplication

import (
	"time"

	"leasing-wizard/internal/common/config"
)

const DefaultIndex = "lease-applications"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(es config.ElasticsearchConfig, wcfg config.WorkerConfig) *Config {
	cfg := &Config{
		Index:   es.Index,
		Timeout: config.GetDuration(wcfg.Timeout),
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}
