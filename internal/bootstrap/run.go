package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/rfp-console/config"
)

// Run wires the console from cfg and serves until ctx is done, SIGINT/SIGTERM arrives,
// or the listener fails.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("run requires config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics := NewMetrics(cfg.Observability.Metrics, logger)
	defer func() {
		if err := metrics.Close(); err != nil {
			logger.Error("close statsd client failed", "error", err)
		}
	}()

	sessions, err := NewSessionBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Error("close session backend failed", "error", err)
		}
	}()

	services := NewServices(&ServiceDeps{Config: cfg, Metrics: metrics, Logger: logger})
	handler, err := BuildHTTPHandler(&HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Sessions: sessions.Provider,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	server := NewHTTPServer(cfg.HTTP.Addr, handler)
	errCh := make(chan error, 1)
	StartHTTPServer(server, logger, errCh)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(context.WithoutCancel(ctx), server, logger)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}
