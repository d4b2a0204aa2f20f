package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leonardcser/sw-cache/internal/cache"
	"github.com/leonardcser/sw-cache/internal/config"
	"github.com/leonardcser/sw-cache/internal/logger"
	web "github.com/leonardcser/sw-cache/internal/web"
	"github.com/leonardcser/sw-cache/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logger.Errorf("%v", err)
		_ = logger.Close()
		os.Exit(1)
	}
	_ = logger.Close()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		return err
	}

	scope, err := web.ParseScope(cfg.Origin)
	if err != nil {
		return err
	}

	kv, started, err := cache.ConnectOrStart(cfg.SocketPath, 5*time.Second)
	if started {
		logger.Infof("Cache daemon started")
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage := cache.NewStorage(kv)
	network := web.NewFetcher(web.Options{Timeout: cfg.FetchTimeout}).Fetch
	reg := worker.Register(scope, worker.NewHandlers(storage, network, scope), network)
	if err := reg.Install(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           worker.NewHandler(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving %s on %s", scope, cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
