package future

import "sync/atomic"

// UnobservedFailureHandler is invoked when a Future detached with Detach
// completes with an error, whether or not other continuations also
// observed that error (DetachWithAudit sends outcomes to its sink
// instead and never calls it). Install one with
// SetUnobservedFailureHandler to surface failures that would otherwise be
// silently dropped; the default is to drop them, per this package's
// design decision to keep Detach's failure handling opt-in.
type UnobservedFailureHandler func(err error)

var unobservedFailureHandler atomic.Pointer[UnobservedFailureHandler]

// SetUnobservedFailureHandler installs fn as the package-wide hook called
// whenever a Future detached with Detach fails. Passing nil
// disables reporting again.
func SetUnobservedFailureHandler(fn UnobservedFailureHandler) {
	if fn == nil {
		unobservedFailureHandler.Store(nil)
		return
	}
	unobservedFailureHandler.Store(&fn)
}

func notifyUnobservedFailure(err error) {
	if h := unobservedFailureHandler.Load(); h != nil {
		(*h)(err)
	}
}
