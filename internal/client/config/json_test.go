package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"storage":         "minio",
		"endpoint":        "127.0.0.1:9000",
		"bucket":          "holiday",
		"use_ssl":         true,
		"database":        "postgres",
		"database_dsn":    "postgres://localhost/photowall",
		"request_timeout": "5s",
		"theme":           "light",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "minio", cfg.Storage)
		assert.Equal(t, "127.0.0.1:9000", cfg.Endpoint)
		assert.Equal(t, "holiday", cfg.Bucket)
		assert.True(t, cfg.UseSSL)
		assert.Equal(t, "postgres", cfg.Database)
		assert.Equal(t, "postgres://localhost/photowall", cfg.DatabaseDSN)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "light", cfg.Theme)

		// absent keys keep defaults
		assert.Equal(t, "photowall-data", cfg.LocalDir)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin", "-b", "memory"}

		cfg := &Config{Storage: "local", Theme: "dark"}
		parseJson(cfg)

		assert.Equal(t, &Config{Storage: "local", Theme: "dark"}, cfg)
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
