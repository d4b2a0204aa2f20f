package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

var (
	ErrEventFinished    = errors.New("worker: event already finished")
	ErrAlreadyResponded = errors.New("worker: respondWith already called")
)

// ExtendableEvent lets a handler extend the event's lifetime with tasks.
// The dispatcher does not consider the event complete until every task
// passed to WaitUntil has settled.
type ExtendableEvent struct {
	mu       sync.Mutex
	tasks    []Awaitable
	finished bool
}

// WaitUntil adds t to the work the event waits on.
func (e *ExtendableEvent) WaitUntil(t Awaitable) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return ErrEventFinished
	}
	e.tasks = append(e.tasks, t)
	return nil
}

// settle waits for every extension task and returns the first error in
// registration order.
func (e *ExtendableEvent) settle(ctx context.Context) error {
	e.mu.Lock()
	e.finished = true
	tasks := e.tasks
	e.mu.Unlock()

	var first error
	for _, t := range tasks {
		if err := t.await(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// InstallEvent is dispatched once per registration before it is active.
type InstallEvent struct {
	ExtendableEvent
}

// FetchEvent is dispatched for each intercepted request.
type FetchEvent struct {
	ExtendableEvent
	Request *http.Request

	respMu    sync.Mutex
	responded *Task[*http.Response]
}

func NewFetchEvent(req *http.Request) *FetchEvent {
	return &FetchEvent{Request: req}
}

// RespondWith supplies the task whose response answers the request.
// It may be called only once.
func (e *FetchEvent) RespondWith(t *Task[*http.Response]) error {
	e.respMu.Lock()
	defer e.respMu.Unlock()
	if e.responded != nil {
		return ErrAlreadyResponded
	}
	e.responded = t
	return nil
}

func (e *FetchEvent) response() *Task[*http.Response] {
	e.respMu.Lock()
	defer e.respMu.Unlock()
	return e.responded
}
