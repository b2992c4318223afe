package submission

import (
	"fmt"

	"leasing-wizard/internal/common/camunda"
	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/logger"
)

// FromConfig builds the sink selected by cfg.Wizard.Sink. The returned close
// function releases the broker connection, if one was opened.
func FromConfig(cfg *config.Config, log logger.Logger) (Sink, func() error, error) {
	switch cfg.Wizard.Sink {
	case "", config.SinkNoop:
		return NewNoopSink(log), func() error { return nil }, nil
	case config.SinkProcess:
		client, err := camunda.NewClientFromConfig(cfg.Camunda)
		if err != nil {
			return nil, nil, err
		}
		return NewProcessSink(client, cfg.Wizard.ProcessID, log), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink %q", cfg.Wizard.Sink)
	}
}
