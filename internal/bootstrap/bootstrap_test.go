package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/rfp-console/config"
	"github.com/target/rfp-console/internal/adapters/memstore"
	redisstore "github.com/target/rfp-console/internal/adapters/redis"
	"github.com/target/rfp-console/internal/testutil"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLogger(LoggerOptions{Level: slog.LevelWarn, Writer: &buf})
	logger.Info("hidden")
	logger.Warn("shown", "rfp_id", "7")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "production logs are JSON")
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "7", line["rfp_id"])
	assert.Same(t, logger, slog.Default())

	buf.Reset()
	InitLogger(LoggerOptions{Level: slog.LevelDebug, Dev: true, Writer: &buf}).Debug("dev line")
	assert.Contains(t, buf.String(), "dev line")
	assert.False(t, json.Valid(buf.Bytes()), "development logs are for humans")
}

func TestNewSessionBackend_Memory(t *testing.T) {
	cfg := &config.AppConfig{Session: config.SessionConfig{Backend: config.SessionBackendMemory, TTL: time.Hour}}

	backend, err := NewSessionBackend(context.Background(), cfg, discard())
	require.NoError(t, err)
	assert.IsType(t, &memstore.Provider{}, backend.Provider)
	assert.NoError(t, backend.Close())
}

func TestNewSessionBackend_Redis(t *testing.T) {
	addr, ok := testutil.GetTestRedisAddr(t)
	if !ok {
		t.Skip("Redis not available for testing")
	}
	cfg := &config.AppConfig{
		Session: config.SessionConfig{Backend: config.SessionBackendRedis, TTL: time.Minute, KeyPrefix: "rfpconsole:test:"},
		Redis:   config.RedisConfig{URI: addr},
	}

	backend, err := NewSessionBackend(context.Background(), cfg, discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	require.IsType(t, &redisstore.StorageProvider{}, backend.Provider)

	store := backend.Provider.Open("bootstrap-" + t.Name())
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "token", "abc"))
	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
	require.NoError(t, store.Remove(ctx, "token"))
}

func TestNewSessionBackend_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cfg := &config.AppConfig{
		Session: config.SessionConfig{Backend: config.SessionBackendRedis},
		Redis:   config.RedisConfig{URI: "127.0.0.1:1"},
	}

	_, err := NewSessionBackend(ctx, cfg, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis")
}

func TestNewMetrics_DisabledDropsEverything(t *testing.T) {
	m := NewMetrics(config.ObservabilityMetricsConfig{}, discard())
	require.NotNil(t, m)
	assert.False(t, m.Enabled())
	m.Count("api.request", 1, nil)
	assert.NoError(t, m.Close())
}

func TestBuildHTTPHandler_ServesHealthAndLogin(t *testing.T) {
	cfg := &config.AppConfig{
		API:     config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Session: config.SessionConfig{CookieName: "sid", TTL: time.Hour},
	}
	services := NewServices(&ServiceDeps{Config: cfg, Logger: discard()})
	require.NotNil(t, services.Auth)
	require.NotNil(t, services.Dashboard)

	handler, err := BuildHTTPHandler(&HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Sessions: memstore.New(memstore.Options{}),
		Logger:   discard(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"rfp-console"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to RFP System!")

	var sid bool
	for _, c := range rec.Result().Cookies() {
		sid = sid || c.Name == "sid"
	}
	assert.True(t, sid, "the configured session cookie name is used")
}

func TestNewHTTPServer_DefaultsAddr(t *testing.T) {
	srv := NewHTTPServer("", http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
	assert.NoError(t, ShutdownHTTPServer(context.Background(), nil, discard()))
}
