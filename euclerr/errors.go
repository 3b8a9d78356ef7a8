// Package euclerr defines the four error kinds the deduction core and its
// surrounding problem/driver layers can raise.
package euclerr

import (
	"errors"
	"fmt"
)

// NoSolution is the sole control-flow escape from the deduction core: raised
// when a Piece's possible-squares set (or the joint mutual-interaction
// search) proves empty. It short-circuits all pending deduction work; no
// partial mutation needs to be rolled back because every mutation up to
// that point was a monotone refinement consistent with any solution.
var NoSolution = errors.New("euclide: no solution")

// IncorrectInput is rejected at problem construction, never raised by the
// deduction core proper.
var IncorrectInput = errors.New("euclide: incorrect input")

// InternalLogic flags an invariant violation: a bug. It is raised by the
// assertion helper and is never caught inside the core.
var InternalLogic = errors.New("euclide: internal logic error")

// OutOfMemory flags a cache or queue allocation failure.
var OutOfMemory = errors.New("euclide: out of memory")

// Assertf raises InternalLogic, wrapping a formatted message, if expression
// is false. It mirrors the design's assertion helper: InternalLogic is
// raised here and only here.
func Assertf(expression bool, format string, args ...any) {
	if expression {
		return
	}
	panic(wrapf(InternalLogic, format, args...))
}

// Raise panics with kind, the core's only control-flow escape. The
// deduction core is deeply recursive (mutual interaction search); panicking
// here and recovering once at the driver boundary avoids threading an error
// return through every recursive call, mirroring the C++ original's
// exception-based escape (spec.md §4.5/§7).
func Raise(kind error) {
	panic(kind)
}

// Recover must be deferred by any function that is a recovery boundary for
// Raise/Assertf (the driver's per-problem entry point, and tests that expect
// a particular kind). It sets *err to the panicking kind if the recovered
// value is one of NoSolution, InternalLogic or OutOfMemory (possibly
// wrapped), and re-panics otherwise.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		switch {
		case errors.Is(e, NoSolution):
			*err = NoSolution
			return
		case errors.Is(e, InternalLogic):
			*err = e
			return
		case errors.Is(e, OutOfMemory):
			*err = OutOfMemory
			return
		}
	}
	panic(r)
}

func wrapf(kind error, format string, args ...any) error {
	return &wrapped{kind: kind, msg: fmt.Sprintf(format, args...)}
}

type wrapped struct {
	kind error
	msg  string
}

func (w *wrapped) Error() string { return w.msg + ": " + w.kind.Error() }
func (w *wrapped) Unwrap() error { return w.kind }
