package future

import (
	"context"

	"github.com/saltfishpr/futures/retry"
)

// RetryAsync runs f on e, retrying per opts on failure, and resolves the
// returned Future with whichever attempt finally succeeds, or with the
// last attempt's error once retries are exhausted.
func RetryAsync[T any](e Executor, ctx context.Context, f func() (T, error), opts ...retry.RetryOption) *Future[T] {
	return AsyncOn(e, func() (T, error) {
		return retry.Do(ctx, f, opts...)
	})
}

// RetryAsyncCtx is RetryAsync against the package's DefaultExecutor.
func RetryAsyncCtx[T any](ctx context.Context, f func() (T, error), opts ...retry.RetryOption) *Future[T] {
	return RetryAsync(DefaultExecutor(), ctx, f, opts...)
}
