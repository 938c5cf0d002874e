package future

import "github.com/saltfishpr/futures/cache"

// Memoize runs f on e, fetching the cached value for key from c first and
// populating it on a miss, per cache.Fetch's semantics. A nil c makes
// Memoize behave exactly like AsyncOn.
func Memoize[T any](e Executor, c cache.Cache, key string, f func() (T, error), opts ...cache.FetchOption) *Future[T] {
	return AsyncOn(e, func() (T, error) {
		return cache.Fetch(c, key, f, opts...)
	})
}
