package future

// Promise provides a facility to store a value or an error that is later
// acquired asynchronously via a Future created by this Promise. Each
// Promise is associated with a shared state, which holds a result that
// may be not yet evaluated, evaluated to a value, or evaluated to an
// error.
//
// Promise is the "push" end of the promise-future pair: the call that
// stores a result in the shared state synchronizes-with (as defined by
// Go's memory model) the successful return of any call waiting on that
// state, such as Future.Get.
//
// Promise is exposed publicly here, mirroring this module's
// explicit-resolver idiom, rather than hidden behind Async the way a
// promise's setter is in some future/promise designs.
//
// A Promise must not be copied after first use.
type Promise[T any] struct {
	state *sharedState[T]
}

// NewPromise creates a new, unset Promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{state: newSharedState[T]()}
}

// Set stores val and err in the Promise's shared state. It panics if the
// Promise is already satisfied; use SetSafety when that's a normal case
// rather than a programming error.
func (p *Promise[T]) Set(val T, err error) {
	if !p.state.trySet(val, err) {
		panic("promise already satisfied")
	}
}

// SetSafety stores val and err, returning false instead of panicking if
// the Promise was already satisfied.
func (p *Promise[T]) SetSafety(val T, err error) bool {
	return p.state.trySet(val, err)
}

// Future returns the Future associated with this Promise. It may be
// called more than once; every call returns a handle onto the same shared
// state.
func (p *Promise[T]) Future() *Future[T] {
	return &Future[T]{state: p.state}
}

// Free reports whether the Promise has not been set yet.
func (p *Promise[T]) Free() bool {
	return p.state.isFree()
}
