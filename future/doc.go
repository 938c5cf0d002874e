// Package future implements a continuation-composable future/promise
// pattern with pluggable executors: shared state between a Promise's
// setter side and any number of Future observers, Then-style continuation
// attachment that fires immediately when the state is already settled,
// AllOf fan-in across independent siblings (Y-formation), and automatic
// flattening of a Future produced by a continuation (ThenFuture) so
// callers are never handed a Future of a Future.
//
// Every blocking wait (Get, WaitReady, WaitUntilReady) and every
// continuation dispatch (Then, AllOf, ...) only ever touches the shared
// state's lock to read or write the settled value; callbacks always run
// after the lock has been released, on whatever Executor they were
// attached with.
package future
