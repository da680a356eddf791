package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/internal/cli"
	httpAdapter "github.com/aretw0/atv/pkg/adapters/http"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation HTTP server",
	Long: `Serves the validation API over HTTP. Types are reloaded when their source
changes: files and Markdown directories are watched, Redis is polled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}

func runServe(parent context.Context) error {
	ctx := cli.NewSignalContext(parent)
	defer ctx.Stop()

	logger := newLogger()
	hooks := observability.LogHooks(logger)
	var handlerOpts []httpAdapter.Option
	handlerOpts = append(handlerOpts, httpAdapter.WithLogger(logger))

	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}
		hooks = domain.ChainHooks(metrics.Hooks(), hooks)
		handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
	}

	v, err := openValidator(ctx, logger, atv.WithHooks(hooks))
	if err != nil {
		return err
	}

	go func() {
		if err := cli.WatchAndReload(ctx, v, logger); err != nil {
			logger.Info("Hot reload disabled", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpAdapter.NewHandler(v, handlerOpts...),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting atv server", "address", srv.Addr, "source", typeSource().Kind(), "types", len(v.TypeMap()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		logger.Info("Start shutdown", "signal", ctx.Signal())

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", cfg.ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		logger.Info("atv server stopped gracefully")
		return nil
	}
}
