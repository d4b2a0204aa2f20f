package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/leonardcser/sw-cache/internal/cache"
	"github.com/leonardcser/sw-cache/internal/logger"
	"github.com/leonardcser/sw-cache/internal/web"
)

// State is a registration's lifecycle position.
type State int

const (
	StateParsed State = iota
	StateInstalling
	StateInstalled
	StateActivating
	StateActivated
	StateRedundant
)

func (s State) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateRedundant:
		return "redundant"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrAlreadyInstalled = errors.New("worker: install already attempted")
	ErrNoResponse       = errors.New("worker: fetch handler settled without a response")
)

// Registration binds one worker to a scope and drives its lifecycle.
// Fetches go through the worker only once it is activated; before that,
// or after a failed install, requests go straight to the network.
type Registration struct {
	scope    web.Scope
	handlers EventHandler
	network  cache.FetchFunc

	mu         sync.RWMutex
	state      State
	installErr error
}

func Register(scope web.Scope, handlers EventHandler, network cache.FetchFunc) *Registration {
	return &Registration{scope: scope, handlers: handlers, network: network}
}

func (r *Registration) Scope() web.Scope { return r.scope }

func (r *Registration) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// InstallErr returns the error that made the registration redundant.
func (r *Registration) InstallErr() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.installErr
}

// Install dispatches the install event and blocks until all of its work
// settles. On success the worker is activated; on failure it becomes
// redundant and never intercepts requests. Install runs at most once.
func (r *Registration) Install(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateParsed {
		r.mu.Unlock()
		return ErrAlreadyInstalled
	}
	r.state = StateInstalling
	r.mu.Unlock()

	ev := &InstallEvent{}
	err := r.handlers.Install(ctx, ev)
	if settleErr := ev.settle(ctx); err == nil {
		err = settleErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = StateRedundant
		r.installErr = err
		logger.Debugf("worker for %s is redundant: %v", r.scope, err)
		return fmt.Errorf("install: %w", err)
	}
	// No activate handler runs; activation follows install directly.
	for _, s := range []State{StateInstalled, StateActivating, StateActivated} {
		r.state = s
		logger.Debugf("worker for %s is %s", r.scope, s)
	}
	return nil
}

// Fetch dispatches a fetch event for req when the worker is active.
func (r *Registration) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	if r.State() != StateActivated {
		return r.network(ctx, req)
	}

	ev := NewFetchEvent(req)
	if err := r.handlers.Fetch(ctx, ev); err != nil {
		return nil, err
	}
	go func() {
		if err := ev.settle(context.WithoutCancel(ctx)); err != nil {
			logger.Debugf("fetch event extension for %s failed: %v", req.URL, err)
		}
	}()

	t := ev.response()
	if t == nil {
		return r.network(ctx, req)
	}
	resp, err := t.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNoResponse
	}
	return resp, nil
}
