package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PHOTOWALL_HTTP_ADDR", ":9999")
	t.Setenv("PHOTOWALL_STORAGE", "local")
	t.Setenv("PHOTOWALL_ALLOWED_ORIGINS", "https://a.example")
	t.Setenv("PHOTOWALL_SHUTDOWN_TIMEOUT", "1m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "local", cfg.Storage)
	assert.Equal(t, "https://a.example", cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
}

func TestParseEnv_InvalidPanics(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PHOTOWALL_USE_SSL", "sometimes")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
