// Package config reads process configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the cache daemon, the MCP server and
// the proxy. Empty paths are filled with defaults under ~/.cache/sw-cache.
type Config struct {
	SocketPath   string        `env:"SW_CACHE_SOCK"`
	DBPath       string        `env:"SW_CACHE_DB"`
	LogPath      string        `env:"SW_LOG"`
	LogLevel     string        `env:"SW_LOG_LEVEL" envDefault:"info"`
	Origin       string        `env:"SW_ORIGIN" envDefault:"http://localhost:8080/"`
	Listen       string        `env:"SW_LISTEN" envDefault:"127.0.0.1:8081"`
	FetchTimeout time.Duration `env:"SW_FETCH_TIMEOUT" envDefault:"20s"`
}

// Load parses the environment and applies path defaults.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	dir := defaultDir()
	if cfg.SocketPath == "" {
		cfg.SocketPath = filepath.Join(dir, "cache.sock")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dir, "cache.bbolt")
	}
	if cfg.LogPath == "" {
		cfg.LogPath = defaultLogPath()
	}
	return cfg, nil
}

func defaultDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "sw-cache")
}

// defaultLogPath is next to the executable, or the working directory.
func defaultLogPath() string {
	if exePath, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exePath), "sw-cache.log")
	}
	return "./sw-cache.log"
}
