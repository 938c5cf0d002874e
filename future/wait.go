package future

import (
	"context"
	"time"
)

// WaitUntilReady blocks until f is ready or ctx is done, whichever comes
// first, returning ctx's error in the latter case.
func WaitUntilReady[T any](ctx context.Context, f *Future[T]) error {
	if f.state == nil {
		return ErrInvalidFuture
	}
	select {
	case <-f.state.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitReady blocks until f is ready or timeout elapses, reporting which
// one happened first.
func WaitReady[T any](f *Future[T], timeout time.Duration) bool {
	if f.state == nil {
		return false
	}
	select {
	case <-f.state.ready:
		return true
	case <-time.After(timeout):
		return false
	}
}

// WaitAllReady blocks until every future in fs has settled, ignoring
// their errors; use AllOf instead when the aggregated results or first
// error are actually needed.
func WaitAllReady[T any](fs ...*Future[T]) {
	for _, f := range fs {
		if f.state == nil {
			continue
		}
		<-f.state.ready
	}
}
