package future

import (
	"sync/atomic"

	"github.com/saltfishpr/futures/future/executors"
)

// Executor 定义了在 future 包中执行异步任务的抽象。
//
// 默认情况下，future 使用标准 Go goroutine（executors.GoExecutor{}）来执行任务，
// 提供轻量级的异步执行，没有池化或并发限制。
//
// 可以用 SetExecutor 把包级默认执行器换成 Executor 接口的任意实现，也可以在单次调用中
// 通过 AsyncOn/ThenOn 等 *On 变体单独指定执行器，比如把 CPU 密集型任务路由到一个有界的
// executors.PoolExecutor，同时让 IO 密集型任务继续用默认的 GoExecutor。
//
// 警告：
//   - 对于可能阻塞的任务，使用池化执行器可能导致任务排队、整体吞吐下降；
//     只有在了解工作负载并做过压测后，才应该替换默认执行器。
//   - 向 SetExecutor 传递 nil 会 panic。
type Executor interface {
	Submit(func())
}

type ExecutorFunc func(func())

func (e ExecutorFunc) Submit(f func()) {
	e(f)
}

// inlineExecutor runs its func synchronously in the calling goroutine. It
// backs bookkeeping continuations (AllOf's counter, Detach's diagnostics
// hook, ThenFuture's reduction forwarding, Timeout/WithContext's internal
// relay) that must never be skipped or reordered relative to the state
// transition that triggered them and that never block.
var inlineExecutor Executor = ExecutorFunc(func(f func()) { f() })

var defaultExecutor atomic.Pointer[Executor]

func init() {
	var e Executor = executors.GoExecutor{}
	defaultExecutor.Store(&e)
}

// DefaultExecutor returns the Executor currently used by Async, Then, and
// the other combinators that don't take an explicit executor.
func DefaultExecutor() Executor {
	return *defaultExecutor.Load()
}

// SetExecutor replaces the package-wide default executor. It panics if e
// is nil.
func SetExecutor(e Executor) {
	if e == nil {
		panic("executor is nil")
	}
	defaultExecutor.Store(&e)
}
