// Package async models operations that complete after a fixed artificial
// delay. An issued operation always runs to completion; callers can stop
// waiting for it but cannot cancel it.
package async

import (
	"context"
	"time"
)

type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// After schedules fn to run once delay has elapsed and returns a Future for
// its result. A zero or negative delay schedules fn immediately.
func After[T any](delay time.Duration, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		defer close(f.done)
		f.value, f.err = fn()
	})
	return f
}

// Done is closed once the operation has completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the operation completes or ctx is done. When ctx wins,
// ctx.Err() is returned and the operation keeps running unobserved.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result reports the outcome without blocking; ok is false while pending.
func (f *Future[T]) Result() (value T, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}
