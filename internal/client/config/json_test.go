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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Setenv("GOPHADMIN_CONFIG", "")

	t.Run("overlays all fields", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"api_base_url":    "https://api.example",
			"session_db_path": "/tmp/s.db",
			"page_size":       20,
			"request_timeout": "15s",
			"log_level":       "debug",
		})

		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, Config{
			APIBaseURL:     "https://api.example",
			SessionDBPath:  "/tmp/s.db",
			PageSize:       20,
			RequestTimeout: 15 * time.Second,
			LogLevel:       "debug",
		}, *cfg)
	})

	t.Run("partial file keeps the rest", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"log_level": "warn"})

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", path})

		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, "http://127.0.0.1:3000", cfg.APIBaseURL)
	})

	t.Run("env var selects the file", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"page_size": 7})
		t.Setenv("GOPHADMIN_CONFIG", path)

		cfg := &Config{}
		parseJson(cfg, nil)

		assert.Equal(t, 7, cfg.PageSize)
	})

	t.Run("no file, no changes", func(t *testing.T) {
		cfg := &Config{APIBaseURL: "keep"}
		parseJson(cfg, []string{"-a", "x"})
		assert.Equal(t, "keep", cfg.APIBaseURL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", "/does/not/exist.json"}) })
	})
}
