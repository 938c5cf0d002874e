package bizerrors

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/saltfishpr/futures/errors"
)

type stack []uintptr

// callers defers the raw frame capture to errors.Callers, the module's own
// pkg/errors-alternative, rather than re-implementing runtime.Callers's
// skip/depth bookkeeping a second time here.
func callers(skip int, depth int) *stack {
	var st stack = errors.Callers(skip+1, depth)
	return &st
}

type (
	StackTrace = pkgerrors.StackTrace
	Frame      = pkgerrors.Frame
)

// StackTrace 兼容 pkg/errors 包.
func (s *stack) StackTrace() StackTrace {
	f := make([]Frame, len(*s))
	for i := 0; i < len(f); i++ {
		f[i] = Frame((*s)[i])
	}
	return f
}
