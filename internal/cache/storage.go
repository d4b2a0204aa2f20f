package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotCacheable is returned when a request/response pair cannot be
	// stored: non-GET requests, partial content, or Vary: *.
	ErrNotCacheable = errors.New("cache: response is not cacheable")
	// ErrBadStatus is returned by AddAll when a fetched response is not 2xx.
	ErrBadStatus = errors.New("cache: bad response status")
)

// FetchFunc performs a network fetch for AddAll.
type FetchFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Storage is the set of named caches held in one KV.
type Storage struct {
	kv KV
}

func NewStorage(kv KV) *Storage {
	return &Storage{kv: kv}
}

// Open returns a handle to the named cache, creating it if absent.
func (s *Storage) Open(ctx context.Context, name string) (*Cache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("cache: empty cache name")
	}
	if err := s.kv.CreateBucket(name); err != nil {
		return nil, fmt.Errorf("open cache %q: %w", name, err)
	}
	return &Cache{name: name, kv: s.kv}, nil
}

// Has reports whether the named cache exists.
func (s *Storage) Has(ctx context.Context, name string) (bool, error) {
	names, err := s.Keys(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// Delete removes the named cache. It reports false if there was none.
func (s *Storage) Delete(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.kv.DeleteBucket(name)
	if errors.Is(err, ErrNoBucket) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys lists the names of all caches.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.kv.Buckets()
}

// Cache returns a handle to the named cache without creating it.
func (s *Storage) Cache(name string) *Cache {
	return &Cache{name: name, kv: s.kv}
}

// Cache is a handle to one named cache.
type Cache struct {
	name string
	kv   KV
}

func (c *Cache) Name() string { return c.name }

// Match returns the stored response for req, or ErrNotFound.
// Only GET requests match. A cache deleted from under the handle is empty.
func (c *Cache) Match(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Method != "" && req.Method != http.MethodGet {
		return nil, ErrNotFound
	}
	b, err := c.kv.Get(c.name, requestKey(req))
	if errors.Is(err, ErrNoBucket) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := unmarshalEntry(b)
	if err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", requestKey(req), err)
	}
	if !e.matches(req) {
		return nil, ErrNotFound
	}
	return e.response(req), nil
}

// Put stores resp as the entry for req, replacing any previous entry.
// resp's body is consumed and closed.
func (c *Cache) Put(ctx context.Context, req *http.Request, resp *http.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkCacheable(req, resp); err != nil {
		resp.Body.Close()
		return err
	}
	e, err := newEntry(req, resp)
	if err != nil {
		return err
	}
	b, err := e.marshal()
	if err != nil {
		return err
	}
	return c.kv.PutBatch(c.name, map[string][]byte{e.URL: b})
}

// Add fetches rawURL and stores the response.
func (c *Cache) Add(ctx context.Context, fetch FetchFunc, rawURL string) error {
	return c.AddAll(ctx, fetch, []string{rawURL})
}

// AddAll fetches every URL and stores all responses in one batch. If any
// fetch fails or any response is not a cacheable 2xx, nothing is stored.
func (c *Cache) AddAll(ctx context.Context, fetch FetchFunc, urls []string) error {
	entries := make([]*entry, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, rawURL := range urls {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return err
			}
			resp, err := fetch(gctx, req)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", rawURL, err)
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				resp.Body.Close()
				return fmt.Errorf("fetch %s: %w: %d", rawURL, ErrBadStatus, resp.StatusCode)
			}
			if err := checkCacheable(req, resp); err != nil {
				resp.Body.Close()
				return fmt.Errorf("fetch %s: %w", rawURL, err)
			}
			e, err := newEntry(req, resp)
			if err != nil {
				return fmt.Errorf("read %s: %w", rawURL, err)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	batch := make(map[string][]byte, len(entries))
	for _, e := range entries {
		b, err := e.marshal()
		if err != nil {
			return err
		}
		batch[e.URL] = b
	}
	return c.kv.PutBatch(c.name, batch)
}

// Delete removes the entry for req. It reports false if there was none.
func (c *Cache) Delete(ctx context.Context, req *http.Request) (bool, error) {
	if _, err := c.Match(ctx, req); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := c.kv.Delete(c.name, requestKey(req)); err != nil {
		return false, err
	}
	return true, nil
}

// Keys lists the request URLs stored in the cache. A cache that does not
// exist is empty.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := c.kv.Keys(c.name)
	if errors.Is(err, ErrNoBucket) {
		return nil, nil
	}
	return keys, err
}

func checkCacheable(req *http.Request, resp *http.Response) error {
	if req.Method != "" && req.Method != http.MethodGet {
		return fmt.Errorf("%w: method %s", ErrNotCacheable, req.Method)
	}
	if resp.StatusCode == http.StatusPartialContent {
		return fmt.Errorf("%w: partial content", ErrNotCacheable)
	}
	if hasVaryStar(resp.Header) {
		return fmt.Errorf("%w: Vary: *", ErrNotCacheable)
	}
	return nil
}
