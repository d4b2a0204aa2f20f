package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"SW_CACHE_SOCK", "SW_CACHE_DB", "SW_LOG", "SW_LOG_LEVEL", "SW_ORIGIN", "SW_LISTEN", "SW_FETCH_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", "sw-cache", "cache.sock"), cfg.SocketPath)
	assert.Equal(t, filepath.Join(home, ".cache", "sw-cache", "cache.bbolt"), cfg.DBPath)
	assert.NotEmpty(t, cfg.LogPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080/", cfg.Origin)
	assert.Equal(t, "127.0.0.1:8081", cfg.Listen)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SW_CACHE_SOCK", "/tmp/x.sock")
	t.Setenv("SW_CACHE_DB", "/tmp/x.bbolt")
	t.Setenv("SW_LOG", "/tmp/x.log")
	t.Setenv("SW_LOG_LEVEL", "debug")
	t.Setenv("SW_ORIGIN", "https://app.test/")
	t.Setenv("SW_LISTEN", ":9000")
	t.Setenv("SW_FETCH_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		SocketPath:   "/tmp/x.sock",
		DBPath:       "/tmp/x.bbolt",
		LogPath:      "/tmp/x.log",
		LogLevel:     "debug",
		Origin:       "https://app.test/",
		Listen:       ":9000",
		FetchTimeout: 5 * time.Second,
	}, cfg)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SW_FETCH_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}
