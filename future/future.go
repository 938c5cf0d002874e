package future

import (
	"fmt"
	"time"
)

// Future provides a mechanism to access the result of an asynchronous
// operation:
//
//  1. An asynchronous operation (Async or Promise) hands a Future to the
//     creator of that operation.
//  2. The creator can then query, wait for, or attach continuations to
//     the Future. These may block, or queue, until the operation has
//     provided a result.
//  3. When the operation is ready to send a result, it does so by
//     modifying the shared state (via Promise.Set) linked to this Future.
type Future[T any] struct {
	state *sharedState[T]
}

// Get blocks until the Future is ready and returns its value and error.
func (f *Future[T]) Get() (T, error) {
	if f.state == nil {
		var zero T
		return zero, ErrInvalidFuture
	}
	return f.state.get()
}

// GetTry is the non-blocking counterpart of Get: it reports whether a
// result is already available instead of waiting for one. Go has no
// move-only handle to invalidate, so calling GetTry again after readiness
// returns the identical result.
func (f *Future[T]) GetTry() (T, error, bool) {
	if f.state == nil {
		var zero T
		return zero, ErrInvalidFuture, true
	}
	return f.state.getTry()
}

// Valid reports whether this Future is associated with shared state, i.e.
// it was produced by Async/Promise/Then rather than being a zero value.
func (f *Future[T]) Valid() bool {
	return f.state != nil
}

// IsDone reports whether the Future has already settled.
func (f *Future[T]) IsDone() bool {
	return f.state != nil && f.state.isDone()
}

// Detach lets the producing task keep running to completion without
// requiring anyone to hold this Future. A terminal failure is silently
// dropped unless SetUnobservedFailureHandler has installed a diagnostic
// hook. Use DetachWithAudit to always record the outcome instead.
func (f *Future[T]) Detach() {
	if f.state == nil {
		return
	}
	f.state.markDetached()
	f.state.subscribe(inlineExecutor, func(_ T, err error) {
		if err != nil {
			notifyUnobservedFailure(err)
		}
	})
}

// DetachWithAudit is Detach, but every terminal outcome — success or
// failure — is recorded to sink rather than only reporting failures to
// the diagnostic hook.
func (f *Future[T]) DetachWithAudit(sink AuditSink) {
	if f.state == nil {
		return
	}
	f.state.markDetached()
	f.state.subscribe(inlineExecutor, func(val T, err error) {
		sink.RecordOutcome(AuditRecord{
			Value: fmt.Sprintf("%v", val),
			Err:   err,
			At:    time.Now(),
		})
	})
}
