package future

// Then attaches a value-consuming continuation to f: once f settles
// successfully, cb runs on DefaultExecutor with f's value, and the
// returned Future settles with cb's result. If f fails instead, cb never
// runs — the failure propagates verbatim to the returned Future, exactly
// as if cb had returned that same error. If f is already settled when
// Then is called, cb still only runs via the executor's Submit, never
// directly inside Then; with the default GoExecutor that is a new
// goroutine.
//
// Go cannot add a new type parameter to a method on a generic receiver,
// so Then is a package-level function rather than a (*Future[T]).Then
// method.
func Then[T, U any](f *Future[T], cb func(T) (U, error)) *Future[U] {
	return ThenOn(DefaultExecutor(), f, cb)
}

// ThenOn is Then routed through a specific Executor.
func ThenOn[T, U any](e Executor, f *Future[T], cb func(T) (U, error)) *Future[U] {
	s := newSharedState[U]()
	f.state.subscribe(e, func(val T, err error) {
		if err != nil {
			var zero U
			s.trySet(zero, err)
			return
		}
		var uval U
		var uerr error
		defer func() {
			if r := recover(); r != nil {
				uerr = recoveredError(2, r)
			}
			s.trySet(uval, uerr)
		}()
		uval, uerr = cb(val)
	})
	return &Future[U]{state: s}
}

// Recover attaches a continuation that only runs when f fails, mapping
// the error back into a value; a successful f passes its value through
// unchanged. It is the mirror image of Then: Then is skipped on failure,
// Recover is skipped on success.
func Recover[T any](f *Future[T], cb func(err error) (T, error)) *Future[T] {
	return RecoverOn(DefaultExecutor(), f, cb)
}

// RecoverOn is Recover routed through a specific Executor.
func RecoverOn[T any](e Executor, f *Future[T], cb func(err error) (T, error)) *Future[T] {
	s := newSharedState[T]()
	f.state.subscribe(e, func(val T, err error) {
		if err == nil {
			s.trySet(val, nil)
			return
		}
		var rval T
		var rerr error
		defer func() {
			if r := recover(); r != nil {
				rerr = recoveredError(2, r)
			}
			s.trySet(rval, rerr)
		}()
		rval, rerr = cb(err)
	})
	return &Future[T]{state: s}
}

// ThenFuture is Then for a continuation that itself starts another
// asynchronous operation: instead of handing the caller a
// Future[*Future[U]], the inner Future's eventual outcome is reduced onto
// the Future ThenFuture returns. As with Then, cb is skipped and the
// failure propagates verbatim when f fails.
func ThenFuture[T, U any](f *Future[T], cb func(T) (*Future[U], error)) *Future[U] {
	return ThenFutureOn(DefaultExecutor(), f, cb)
}

// ThenFutureOn is ThenFuture routed through a specific Executor for the
// outer continuation; the reduction step itself always runs inline,
// because forwarding an already-computed result never blocks.
func ThenFutureOn[T, U any](e Executor, f *Future[T], cb func(T) (*Future[U], error)) *Future[U] {
	s := newSharedState[U]()
	f.state.subscribe(e, func(val T, err error) {
		if err != nil {
			var zero U
			s.trySet(zero, err)
			return
		}

		var inner *Future[U]
		var cerr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					cerr = recoveredError(2, r)
				}
			}()
			inner, cerr = cb(val)
		}()

		if cerr != nil {
			var zero U
			s.trySet(zero, cerr)
			return
		}
		if inner == nil || inner.state == nil {
			var zero U
			s.trySet(zero, ErrInvalidFuture)
			return
		}
		inner.state.subscribe(inlineExecutor, func(ival U, ierr error) {
			s.trySet(ival, ierr)
		})
	})
	return &Future[U]{state: s}
}

// Watch attaches a continuation that observes f's outcome unconditionally
// — value and error both, on success or failure alike — without producing
// a new Future. It exposes the same unconditional subscription that
// Detach/DetachWithAudit make internally, for callers (such as a DAG scheduler forwarding a node's result
// into another Promise) that need to react to a settled Future rather
// than transform it.
func Watch[T any](f *Future[T], cb func(T, error)) {
	WatchOn(DefaultExecutor(), f, cb)
}

// WatchOn is Watch routed through a specific Executor.
func WatchOn[T any](e Executor, f *Future[T], cb func(T, error)) {
	f.state.subscribe(e, cb)
}
