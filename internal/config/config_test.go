package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitos/capital_trade_client/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://api.example.com
  ws_url: wss://api.example.com/ws/quotes
cache:
  path: /var/lib/trader/cache.db
logging:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	require.Equal(t, "wss://api.example.com/ws/quotes", cfg.Backend.WSURL)
	require.Equal(t, "/var/lib/trader/cache.db", cfg.Cache.Path)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://file.example.com
logging:
  level: warn
`)
	t.Setenv("TRADER_BACKEND_URL", "https://env.example.com")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.Backend.BaseURL)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "trader.db", cfg.Cache.Path)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Empty(t, cfg.Backend.BaseURL)
}
