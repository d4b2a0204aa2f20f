package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/leonardcser/sw-cache/internal/cache"
	"github.com/leonardcser/sw-cache/internal/logger"
	"github.com/leonardcser/sw-cache/internal/web"
)

// CacheName is the cache the worker seeds and serves from.
const CacheName = "app-cache"

// precache is the fixed list of paths seeded at install.
var precache = []string{"/"}

// EventHandler receives the worker's lifecycle and fetch events.
type EventHandler interface {
	Install(ctx context.Context, ev *InstallEvent) error
	Fetch(ctx context.Context, ev *FetchEvent) error
}

// Handlers is the app-cache worker: install seeds CacheName, fetch reads
// through it. Misses are never written back.
type Handlers struct {
	storage *cache.Storage
	network cache.FetchFunc
	scope   web.Scope
}

func NewHandlers(storage *cache.Storage, network cache.FetchFunc, scope web.Scope) *Handlers {
	return &Handlers{storage: storage, network: network, scope: scope}
}

// Install seeds the cache. The event does not complete until the seeding
// task settles; a failure fails the install.
func (h *Handlers) Install(ctx context.Context, ev *InstallEvent) error {
	logger.Infof("Installing app-cache worker for %s", h.scope)
	return ev.WaitUntil(Go(ctx, func(ctx context.Context) (struct{}, error) {
		c, err := h.storage.Open(ctx, CacheName)
		if err != nil {
			return struct{}{}, err
		}
		urls := make([]string, 0, len(precache))
		for _, p := range precache {
			u, err := h.scope.Resolve(p)
			if err != nil {
				return struct{}{}, fmt.Errorf("resolve %q: %w", p, err)
			}
			urls = append(urls, u)
		}
		return struct{}{}, c.AddAll(ctx, h.network, urls)
	}))
}

// Fetch answers from the cache when it holds a match, otherwise from a
// single network fetch.
func (h *Handlers) Fetch(ctx context.Context, ev *FetchEvent) error {
	return ev.RespondWith(Go(ctx, func(ctx context.Context) (*http.Response, error) {
		resp, err := h.storage.Cache(CacheName).Match(ctx, ev.Request)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			return nil, err
		}
		return h.network(ctx, ev.Request)
	}))
}

