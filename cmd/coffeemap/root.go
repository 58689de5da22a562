package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/coffee-map/internal/config"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *observability.Metrics
)

var rootCmd = &cobra.Command{
	Use:           "coffeemap",
	Short:         "Build and serve a map of a coffee tasting log",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger = observability.NewLogger(cmd.ErrOrStderr(), cfg)
		if metrics == nil {
			metrics = observability.NewMetrics()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the YAML configuration file")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
