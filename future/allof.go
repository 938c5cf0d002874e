package future

import "sync/atomic"

// AllOf implements Y-formation fan-in: it waits on every future in fs and
// resolves successfully with their results in argument order once all of
// them succeed, or fails as soon as any one of them fails. Siblings are
// unordered — they may settle in any order, on any goroutine, and AllOf
// still reports results positionally.
func AllOf[T any](fs ...*Future[T]) *Future[[]T] {
	if len(fs) == 0 {
		return Done[[]T](nil)
	}

	s := newSharedState[[]T]()
	var failed atomic.Bool
	var remaining atomic.Int32
	remaining.Store(int32(len(fs)))
	results := make([]T, len(fs))

	for i, f := range fs {
		i := i
		f.state.subscribe(inlineExecutor, func(val T, err error) {
			if err != nil {
				if failed.CompareAndSwap(false, true) {
					s.trySet(nil, err)
				}
				return
			}
			results[i] = val
			if remaining.Add(-1) == 0 {
				s.trySet(results, nil)
			}
		})
	}
	return &Future[[]T]{state: s}
}
