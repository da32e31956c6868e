package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/layout/internal/cli"
	httpadapter "github.com/aretw0/layout/pkg/adapters/http"
	"github.com/aretw0/layout/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the snapshot HTTP server",
		Long: `Exposes the configured snapshot store over HTTP, with server-sent events for
snapshot changes and Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			logger := cli.CreateLogger(cfg)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := observability.NewMetrics(reg)

			backend, err := cli.OpenStore(cfg.Store, metrics)
			if err != nil {
				return err
			}
			defer backend.Close()

			opts := []httpadapter.Option{httpadapter.WithLogger(logger)}
			if backend.Locker != nil {
				opts = append(opts, httpadapter.WithLocker(backend.Locker, cfg.Store.Redis.LockTTL))
			}
			if cfg.Server.Metrics {
				opts = append(opts, httpadapter.WithMetrics(reg))
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           httpadapter.NewHandler(backend.Store, opts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := cli.ShutdownContext(cmd.Context())
			defer stop()

			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting layout server", "addr", srv.Addr, "backend", cfg.Store.Backend)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case <-ctx.Done():
				logger.Info("shutting down", "signal", cli.CaughtSignal(ctx))

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("failed to close server: %w", err)
					}
				}
				logger.Info("layout server stopped")
				return nil
			}
		},
	}
	cmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides server.addr)")
	return cmd
}
