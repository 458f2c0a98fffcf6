package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/rfp-console/config"
	"github.com/target/rfp-console/internal/adapters/memstore"
	redisstore "github.com/target/rfp-console/internal/adapters/redis"
	"github.com/target/rfp-console/internal/apiclient"
	"github.com/target/rfp-console/internal/observability/statsd"
	"github.com/target/rfp-console/internal/ports"
	"github.com/target/rfp-console/internal/service"
)

// ServiceContainer holds the domain services the HTTP layer depends on.
type ServiceContainer struct {
	Gateway   *apiclient.Client
	Auth      *service.AuthService
	RFPs      *service.RFPService
	Vendors   *service.VendorService
	Dashboard *service.DashboardService
}

// ServiceDeps contains the dependencies needed to build services.
type ServiceDeps struct {
	Config  *config.AppConfig
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// NewServices builds the API client and the services on top of it.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	gw := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
		Metrics: deps.Metrics,
	})
	rfps := service.NewRFPService(service.RFPServiceOptions{Gateway: gw, Logger: logger})
	vendors := service.NewVendorService(service.VendorServiceOptions{Gateway: gw, Logger: logger})

	return ServiceContainer{
		Gateway:   gw,
		Auth:      service.NewAuthService(service.AuthServiceOptions{Gateway: gw, Logger: logger}),
		RFPs:      rfps,
		Vendors:   vendors,
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{RFPs: rfps, Vendors: vendors, Logger: logger}),
	}
}

// NewMetrics returns the StatsD client for cfg. A disabled config or a failed dial yields
// a client that drops everything, so metrics never block startup.
func NewMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.IsEnabled(),
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: map[string]string{"service": "rfp-console"},
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		client, _ = statsd.NewClient(statsd.Config{Logger: logger})
	}
	return client
}

// SessionBackend is the storage provider behind browser sessions plus its teardown.
type SessionBackend struct {
	Provider ports.StorageProvider
	Close    func() error
}

// NewSessionBackend opens the configured session store: process memory, or Redis
// (standalone, sentinel or cluster).
func NewSessionBackend(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (SessionBackend, error) {
	if cfg == nil {
		return SessionBackend{}, errors.New("session backend requires config")
	}
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := ConnectRedis(RedisOptions{Context: ctx, Config: cfg.Redis, Logger: logger})
		if err != nil {
			return SessionBackend{}, fmt.Errorf("connect redis: %w", err)
		}
		return SessionBackend{
			Provider: newRedisSessions(client, cfg.Session),
			Close:    client.Close,
		}, nil
	case config.SessionBackendMemory, "":
		if logger != nil {
			logger.Warn("using in-memory sessions; they are lost on restart and not shared between replicas")
		}
		return SessionBackend{
			Provider: memstore.New(memstore.Options{TTL: cfg.Session.TTL}),
			Close:    func() error { return nil },
		}, nil
	default:
		return SessionBackend{}, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func newRedisSessions(client redis.UniversalClient, cfg config.SessionConfig) *redisstore.StorageProvider {
	return redisstore.NewStorageProvider(redisstore.StorageProviderOptions{
		Client: client,
		Prefix: cfg.KeyPrefix,
		TTL:    cfg.TTL,
	})
}
