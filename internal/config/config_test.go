package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TT_CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "https://raw.githubusercontent.com/rfordatascience/tidytuesday/main/data", cfg.Fetch.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PingPeriod)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TT_CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	t.Setenv("TT_SERVER_PORT", "9191")
	t.Setenv("TT_LOGGING_LEVEL", "debug")
	t.Setenv("TT_FETCH_BASE_URL", "http://localhost:8000/data")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:8000/data", cfg.Fetch.BaseURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 3000
logging:
  level: warn
  output: console
fetch:
  base_url: "http://mirror.example.com/data"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("TT_CONFIG_FILE", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "http://mirror.example.com/data", cfg.Fetch.BaseURL)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 3000\n"), 0644))
	t.Setenv("TT_CONFIG_FILE", configPath)
	t.Setenv("TT_SERVER_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoad_InvalidLevel(t *testing.T) {
	t.Setenv("TT_CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	t.Setenv("TT_LOGGING_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("TT_CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	t.Setenv("TT_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}
