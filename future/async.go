package future

import "context"

// Async submits f to the package's DefaultExecutor and returns a Future
// observing its eventual result. If f returns an error, the Future fails
// with a task-failure ErrorCarrier whose cause is that error (an error that
// already wraps a *bizerrors.Error is stored as that carrier instead). If f
// panics, the panic is recovered and turned into a task-failure
// ErrorCarrier the same way instead of propagating into the executor's
// goroutine.
func Async[T any](f func() (T, error)) *Future[T] {
	return AsyncOn(DefaultExecutor(), f)
}

// AsyncOn is Async routed through a specific Executor rather than the
// package default, letting callers shard CPU-bound and IO-bound work
// across different pools.
func AsyncOn[T any](e Executor, f func() (T, error)) *Future[T] {
	s := newSharedState[T]()
	e.Submit(func() {
		var val T
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = recoveredError(2, r)
			} else if err != nil {
				err = newTaskFailure(err)
			}
			s.trySet(val, err)
		}()
		val, err = f()
	})
	return &Future[T]{state: s}
}

// AsyncCtx is Async for tasks that want access to a context; ctx is
// passed through to f but Async never cancels f on its own — combine the
// returned Future with WithContext if the caller also wants early
// cancellation of the *observation*.
func AsyncCtx[T any](ctx context.Context, f func(ctx context.Context) (T, error)) *Future[T] {
	return AsyncOnCtx(DefaultExecutor(), ctx, f)
}

// AsyncOnCtx is AsyncCtx routed through a specific Executor.
func AsyncOnCtx[T any](e Executor, ctx context.Context, f func(ctx context.Context) (T, error)) *Future[T] {
	return AsyncOn(e, func() (T, error) { return f(ctx) })
}

// Done returns an already-completed Future holding val.
func Done[T any](val T) *Future[T] {
	return Done2(val, nil)
}

// Done2 returns an already-completed Future holding val and err.
func Done2[T any](val T, err error) *Future[T] {
	s := newSharedState[T]()
	s.trySet(val, err)
	return &Future[T]{state: s}
}

// Await is a readability alias for f.Get; it exists so call sites can
// read "await this future" without introducing a second blocking
// mechanism alongside Get.
func Await[T any](f *Future[T]) (T, error) {
	return f.Get()
}
