package main

import (
	"net"
	"os"
	"path/filepath"

	"github.com/leonardcser/sw-cache/internal/cache"
	"github.com/leonardcser/sw-cache/internal/config"
	"github.com/leonardcser/sw-cache/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Close()

	// Ensure socket dir exists and remove stale socket
	_ = os.MkdirAll(filepath.Dir(cfg.SocketPath), 0o755)
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	_ = os.Remove(cfg.SocketPath)

	l, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		logger.Errorf("listen on %s: %v", cfg.SocketPath, err)
		panic(err)
	}
	defer l.Close()
	_ = os.Chmod(cfg.SocketPath, 0o600)

	store, err := cache.Open(cfg.DBPath)
	if err != nil {
		logger.Errorf("open cache store %s: %v", cfg.DBPath, err)
		panic(err)
	}
	defer store.Close()

	logger.Infof("Cache daemon serving %s on %s", cfg.DBPath, cfg.SocketPath)
	if err := cache.Serve(l, store); err != nil {
		logger.Errorf("cache daemon: %v", err)
	}
}
