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
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
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
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"base_url":               "http://gym.example:9000",
		"session_db_path":        "/tmp/alt-session.db",
		"request_timeout":        "20s",
		"session_watch_interval": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://gym.example:9000", cfg.BaseURL)
		assert.Equal(t, "/tmp/alt-session.db", cfg.SessionDBPath)
		assert.Equal(t, 20*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 10*time.Second, cfg.SessionWatchInterval)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			BaseURL:              "http://defaults:1234",
			SessionWatchInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.BaseURL)
		assert.Equal(t, 42*time.Second, cfg.SessionWatchInterval)
	})

	t.Run("partial file keeps other fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"base_url": "http://partial:5000",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{RequestTimeout: 15 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://partial:5000", cfg.BaseURL)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
