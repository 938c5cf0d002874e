// Package executors provides the built-in Executor implementations for
// package future: a plain per-task goroutine, and a bounded pool backed by
// a semaphore channel.
package executors

import "github.com/saltfishpr/futures/routine"

// GoExecutor runs every submitted func in its own goroutine via
// routine.GoSafe, so a panicking task can never crash the process even if
// the caller bypassed future's own recover-to-error machinery.
type GoExecutor struct{}

func (GoExecutor) Submit(f func()) {
	routine.GoSafe(f)
}

// PoolExecutor bounds concurrency to maxWorkers using a buffered channel
// as a semaphore; Submit blocks the caller until a slot is free.
type PoolExecutor struct {
	sem chan struct{}
}

func NewPoolExecutor(maxWorkers int) *PoolExecutor {
	return &PoolExecutor{
		sem: make(chan struct{}, maxWorkers),
	}
}

func (p *PoolExecutor) Submit(f func()) {
	p.sem <- struct{}{}
	routine.GoSafe(func() {
		defer func() { <-p.sem }()
		f()
	})
}
