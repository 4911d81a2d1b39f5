package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"CredibilityScanner/internal/app"
	"CredibilityScanner/internal/config"
	"CredibilityScanner/internal/logging"
)

// Execute runs the credscan command tree.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd assembles the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "credscan",
		Short:         "News credibility classifier",
		Long:          "credscan trains a TF-IDF text classifier on labeled news and rates articles as high or low credibility.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("config", "", "Path to YAML or TOML config (overrides CREDSCAN_CONFIG env var)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newTrainCmd())
	root.AddCommand(newPredictCmd())
	root.AddCommand(newMetricsCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newServeCmd())

	return root
}

// loadApp resolves configuration with flag overrides and builds the application.
func loadApp(cmd *cobra.Command) (*app.Application, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		if err := os.Setenv("CREDSCAN_CONFIG", p); err != nil {
			return nil, err
		}
	}

	cfg := config.Load()
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}

	return app.New(cmd.Context(), cfg, logging.New(cfg.Logging.Level))
}
