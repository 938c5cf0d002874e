package future

import (
	"github.com/saltfishpr/futures/bizerrors"
	"github.com/saltfishpr/futures/routine"
)

// Error codes carried by every *ErrorCarrier this package produces.
const (
	CodeTaskFailure   int32 = 1001
	CodeBrokenPromise int32 = 1002
	CodeInvalidFuture int32 = 1003
	CodeTimeout       int32 = 1004
)

// ErrorCarrier is the opaque failure wrapper threaded through a Future's
// error side: a *bizerrors.Error carrying a stable code, a human message
// and (via WithCause) the original panic or returned error. Failures of
// Async/AsyncOn tasks, panics in continuation callbacks and this package's
// own sentinels are ErrorCarriers; an error returned by a Then/Recover
// callback, and the context error set by WithContext, are stored as they
// are.
type ErrorCarrier = bizerrors.Error

var (
	// ErrBrokenPromise names a shared state abandoned without ever being
	// set. No code path in this package returns it: Async's own paths
	// always set the state, panicking or not, and Get on a state that is
	// never set (a dropped Promise, or a task an Executor never runs)
	// blocks indefinitely.
	ErrBrokenPromise = bizerrors.New(CodeBrokenPromise, "promise was dropped before it was satisfied")

	// ErrInvalidFuture is returned by a zero-value Future, i.e. one never
	// produced by Async, Promise.Future or a combinator.
	ErrInvalidFuture = bizerrors.New(CodeInvalidFuture, "future has no associated shared state")

	// ErrTimeout is the failure Timeout/Until set when the deadline elapses
	// before the underlying Future becomes ready.
	ErrTimeout = bizerrors.New(CodeTimeout, "future did not become ready before the deadline")
)

func newTaskFailure(cause error) *ErrorCarrier {
	return bizerrors.New(CodeTaskFailure, "async task failed").WithCause(cause)
}

// recoveredError converts a value captured by a direct recover() call
// into a task-failure ErrorCarrier, preserving the panic's stack via
// routine.Recovered.
func recoveredError(skip int, r any) error {
	rec := routine.NewRecovered(skip+1, r)
	return newTaskFailure(rec.AsError())
}
