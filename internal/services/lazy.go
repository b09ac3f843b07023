package services

import (
	"context"
	"errors"
	"sync"
)

// LazyState reports the lifecycle position of a Lazy handle.
type LazyState string

const (
	LazyUninitialized LazyState = "uninitialized"
	LazyReady         LazyState = "ready"
	LazyFailed        LazyState = "failed"
)

// Lazy builds a value on first use and reuses it afterwards. A failed
// initialization is not cached: the next Get runs init again, so one bad
// cold start does not poison the process.
type Lazy[T any] struct {
	init func(context.Context) (T, error)

	mu      sync.Mutex
	value   T
	state   LazyState
	lastErr error
}

// NewLazy wraps init in a Lazy handle.
func NewLazy[T any](init func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{init: init, state: LazyUninitialized}
}

// Ready returns a handle that is already initialized with value.
func Ready[T any](value T) *Lazy[T] {
	return &Lazy[T]{value: value, state: LazyReady}
}

// Get returns the initialized value, running init when the handle is not ready.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if l == nil {
		return zero, errors.New("lazy handle: nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == LazyReady {
		return l.value, nil
	}
	if l.init == nil {
		return zero, errors.New("lazy handle: no initializer")
	}
	value, err := l.init(ctx)
	if err != nil {
		l.state = LazyFailed
		l.lastErr = err
		return zero, err
	}
	l.value = value
	l.state = LazyReady
	l.lastErr = nil
	return value, nil
}

// State reports the current lifecycle state and the last init error, if any.
func (l *Lazy[T]) State() (LazyState, error) {
	if l == nil {
		return LazyUninitialized, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == "" {
		return LazyUninitialized, nil
	}
	return l.state, l.lastErr
}
