package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CATALOG_LATENCY", "0s")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewApp_MemoryStore(t *testing.T) {
	a, err := NewApp(loadConfig(t), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "shopper")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_ADDR", mr.Addr())

	a, err := NewApp(loadConfig(t), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "shopper")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, mr.Exists("storefront:cart:shopper"))

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	a, err := NewApp(loadConfig(t), testLogger())
	assert.Nil(t, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}
