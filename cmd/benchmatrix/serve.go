package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/benchmatrix/internal/adapters/http/api"
	"github.com/okian/benchmatrix/internal/adapters/http/swagger"
	service "github.com/okian/benchmatrix/internal/app"
	"github.com/okian/benchmatrix/internal/ingest"
	"github.com/okian/benchmatrix/pkg/logger"
	"github.com/okian/benchmatrix/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func serveCmd(c *cli) *cobra.Command {
	var (
		addr    string
		refresh time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Ingest all sources and serve the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			return runServe(cmd.Context(), c, refresh)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: addr from config)")
	cmd.Flags().DurationVar(&refresh, "refresh", 0, "re-ingest every interval; 0 disables")
	return cmd
}

func runServe(parent context.Context, c *cli, refresh time.Duration) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get()
	svc := c.newService(service.WithRefreshInterval(refresh))
	if err := svc.Start(ctx); err != nil {
		if !errors.Is(err, ingest.ErrNoSourcesSucceeded) {
			return err
		}
		log.Warn(ctx, "first pass loaded nothing; serving 503 until a reload succeeds", logger.Error(err))
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, c.cfg.MaxModelsLimit).Register(mux)

	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           api.LoggingMiddleware(mux, logger.Named("http")),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", c.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater publishes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		metrics.RecordSystemGCPauseTime(float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond)
	}
}
