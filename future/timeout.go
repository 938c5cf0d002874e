package future

import (
	"context"
	"time"
)

// Timeout returns a Future that resolves with f's outcome if it becomes
// ready within d, or fails with ErrTimeout otherwise. f itself keeps
// running to completion either way; a timed-out caller simply stops
// waiting on it.
func Timeout[T any](f *Future[T], d time.Duration) *Future[T] {
	return Until(f, time.Now().Add(d))
}

// Until is Timeout expressed as an absolute deadline.
func Until[T any](f *Future[T], deadline time.Time) *Future[T] {
	s := newSharedState[T]()
	done := make(chan struct{})
	timer := time.NewTimer(time.Until(deadline))

	f.state.subscribe(inlineExecutor, func(val T, err error) {
		if s.trySet(val, err) {
			timer.Stop()
			close(done)
		}
	})
	go func() {
		select {
		case <-timer.C:
			var zero T
			s.trySet(zero, ErrTimeout)
		case <-done:
		}
	}()

	return &Future[T]{state: s}
}

// WithContext returns a Future that mirrors f but fails early with ctx's
// error if ctx is cancelled before f becomes ready.
func WithContext[T any](ctx context.Context, f *Future[T]) *Future[T] {
	s := newSharedState[T]()
	done := make(chan struct{})

	f.state.subscribe(inlineExecutor, func(val T, err error) {
		if s.trySet(val, err) {
			close(done)
		}
	})
	go func() {
		select {
		case <-ctx.Done():
			var zero T
			s.trySet(zero, ctx.Err())
		case <-done:
		}
	}()

	return &Future[T]{state: s}
}
