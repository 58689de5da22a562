package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/coffee-map/internal/adapter/http"
	"github.com/couchcryptid/coffee-map/internal/adapter/kafka"
	"github.com/couchcryptid/coffee-map/internal/pipeline"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map layers over HTTP and reload the sheet on demand",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = serveAddr
		}
		ctx := cmd.Context()

		a := newApp(cfg)
		defer a.close()

		state := pipeline.NewState(a.loader, logger, metrics)
		var writer *kafka.Writer
		if len(cfg.KafkaBrokers) > 0 {
			writer = kafka.NewWriter(cfg, metrics, logger)
			state.WithPublisher(writer)
			logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
		}

		srv := httpadapter.NewServer(cfg.HTTPAddr, state, logger)

		// Start HTTP server.
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()

		// Initial load, then periodic refresh. /readyz fails until the
		// first load succeeds.
		go func() {
			if err := state.Reload(ctx); err != nil {
				logger.Error("initial load failed", "error", err)
			}
			if err := state.Run(ctx, cfg.RefreshInterval); err != nil {
				logger.Error("refresh loop error", "error", err)
			}
		}()

		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if writer != nil {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}

		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address, overrides HTTP_ADDR")
	rootCmd.AddCommand(serveCmd)
}
