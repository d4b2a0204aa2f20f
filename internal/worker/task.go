// Package worker hosts the app-cache worker: an install step that seeds a
// named cache and a fetch step that answers requests from it, falling back
// to the network.
package worker

import (
	"context"
	"sync"
)

// Task is an awaitable unit of asynchronous work. Its result settles once.
type Task[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Go runs fn in a new goroutine and returns its task.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := newTask[T]()
	go func() {
		v, err := fn(ctx)
		t.settle(v, err)
	}()
	return t
}

// Resolved returns an already settled task.
func Resolved[T any](v T, err error) *Task[T] {
	t := newTask[T]()
	t.settle(v, err)
	return t
}

func newTask[T any]() *Task[T] { return &Task[T]{done: make(chan struct{})} }

func (t *Task[T]) settle(v T, err error) {
	t.once.Do(func() {
		t.value, t.err = v, err
		close(t.done)
	})
}

// Done is closed once the task has settled.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until the task settles or ctx is done.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Err returns the settled error, or nil while the task is still pending.
func (t *Task[T]) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *Task[T]) await(ctx context.Context) error {
	_, err := t.Wait(ctx)
	return err
}

// Awaitable is any task an event can be extended with.
type Awaitable interface {
	Done() <-chan struct{}
	await(ctx context.Context) error
}
