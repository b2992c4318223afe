package commands

import (
	"github.com/spf13/cobra"

	"leasing-wizard/internal/common/config"
	"leasing-wizard/internal/common/logger"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leasing-wizard",
		Short:         "Three step lease application wizard",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.LoadFromFile(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			log = newLogger(cfg.Logging)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	root.AddCommand(runCmd(), validateCmd(), countriesCmd())
	return root
}

// newLogger keeps stdout free for the wizard: console output is dropped
// unless logging.output points at a file.
func newLogger(lc config.LoggingConfig) logger.Logger {
	switch lc.Output {
	case "", "stdout", "stderr":
		return logger.NewNoOpLogger()
	}
	return logger.NewZapAdapter(logger.NewWithOutput(lc.Level, lc.Format, lc.Output))
}
