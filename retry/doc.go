// Package retry provides the retry-with-backoff strategy that backs
// future.RetryAsync: a task submitted to an Executor that keeps failing
// gets retried in place, on the same goroutine, before the Future it
// belongs to ever settles.
//
// Direct use looks like:
//
//	result, err := retry.Do(ctx, func() (string, error) {
//	    return apiCall()
//	})
//
// future.RetryAsync forwards its options straight through to Do:
//
//	f := future.RetryAsyncCtx(ctx, fetchPage,
//	    retry.WithMaxAttempts(5),
//	    retry.WithRetryStrategy(retry.ExponentialBackoff(100*time.Millisecond, time.Second)),
//	    retry.WithShouldRetryFunc(func(err error) bool {
//	        return isTransientError(err)
//	    }),
//	)
//
// Backoff strategies:
//   - FixedBackoff: constant interval between attempts
//   - LinearBackoff: interval grows linearly with attempt number
//   - ExponentialBackoff: exponential growth, with a configurable cap
package retry
