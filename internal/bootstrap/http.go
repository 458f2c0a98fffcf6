package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/rfp-console/config"
	httpx "github.com/target/rfp-console/internal/http"
	"github.com/target/rfp-console/internal/observability/statsd"
	"github.com/target/rfp-console/internal/ports"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	// writeTimeout leaves room for an upstream call at the maximum API timeout.
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Sessions ports.StorageProvider
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router with the configured middleware.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
	}

	return httpx.NewRouter(httpx.RouterServices{
		Auth:               cfg.Services.Auth,
		RFPs:               cfg.Services.RFPs,
		Vendors:            cfg.Services.Vendors,
		Dashboard:          cfg.Services.Dashboard,
		Sessions:           cfg.Sessions,
		SessionCookieName:  appCfg.Session.CookieName,
		SessionTTL:         appCfg.Session.TTL,
		CookieDomain:       appCfg.HTTP.CookieDomain,
		CompressionEnabled: appCfg.HTTP.CompressionEnabled,
		CompressionLevel:   appCfg.HTTP.CompressionLevel,
		AssetVersion:       appCfg.HTTP.AssetVersion,
		IsDev:              appCfg.IsDev,
		Logger:             logger,
		Metrics:            cfg.Metrics,
	})
}

// NewHTTPServer wraps handler in a server with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// StartHTTPServer runs server in the background. Listen failures are sent on errCh.
func StartHTTPServer(server *http.Server, logger *slog.Logger, errCh chan<- error) {
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			errCh <- err
		}
	}()
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
