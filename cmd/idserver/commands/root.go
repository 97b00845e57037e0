package commands

import (
	"github.com/spf13/cobra"

	"github.com/reoring/idjson/i18n"
	"github.com/reoring/idjson/internal/config"
)

// NewRootCmd returns the idserver root command. Every setting is a persistent
// flag so subcommands share one configuration surface.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "idserver",
		Short:        "Serve object graphs whose identifier int64 fields travel as JSON strings",
		SilenceUsage: true,
	}
	config.AddFlags(cmd.PersistentFlags())
	return cmd
}

// loadConfig resolves the configuration for cmd and applies process-wide
// settings derived from it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	i18n.SetLanguage(cfg.Errors.Lang)
	return cfg, nil
}
