// Package errdefs collects the compile-time error constructors used across
// the surface and stdlib packages, grounded on the teacher's errdefs/errors.go
// Withxxx constructor style but built over diagnostic.SpanError rather than
// an ast-coupled Node interface.
package errdefs

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/openllb/remap/diagnostic"
	"github.com/openllb/remap/kind"
)

// ErrAbort reports that compilation gave up after accumulating errs
// diagnostics, matching the teacher's ErrAbort.
type ErrAbort struct {
	Err     error
	NumErrs int
}

func (e *ErrAbort) Unwrap() error { return e.Err }

func (e *ErrAbort) Error() string {
	if e.NumErrs == 0 {
		return e.Err.Error()
	}
	errStr := "error"
	if e.NumErrs > 1 {
		errStr = fmt.Sprintf("%d errors", e.NumErrs)
	}
	return fmt.Sprintf("\naborting due to previous %s", errStr)
}

func WithAbort(err error, numErrs int) *ErrAbort {
	return &ErrAbort{Err: err, NumErrs: numErrs}
}

// WithUndefinedIdent reports a variable reference with no binding in scope.
func WithUndefinedIdent(name string, pos, end lexer.Position) error {
	return diagnostic.WithError(
		errors.Errorf("undefined variable %q", name),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "undefined or not in scope"),
	)
}

// WithWrongType reports a static Kind mismatch: actual does not intersect
// any of expected.
func WithWrongType(pos, end lexer.Position, expected kind.Kind, actual kind.Kind) error {
	return diagnostic.WithError(
		errors.Errorf("cannot use %s as %s", actual, expected),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "cannot use %s as %s", actual, expected),
	)
}

// WithInvalidPath reports a path literal that failed to parse.
func WithInvalidPath(pos, end lexer.Position, raw string, cause error) error {
	return diagnostic.WithError(
		errors.Wrapf(cause, "invalid path %q", raw),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "invalid path: %s", cause),
	)
}

// WithUnknownFunction reports a call to a name missing from the function
// Registry.
func WithUnknownFunction(pos, end lexer.Position, name string) error {
	return diagnostic.WithError(
		errors.Errorf("unknown function %q", name),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "no such function"),
	)
}

// WithInternalErrorf wraps an unexpected compiler-internal condition.
func WithInternalErrorf(pos, end lexer.Position, format string, a ...interface{}) error {
	err := errors.Errorf(format, a...)
	return diagnostic.WithError(
		err, pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, format, a...),
	)
}

// WithReadOnlyPath reports a static attempt to mutate a host-declared
// read-only target path (spec §6).
func WithReadOnlyPath(pos, end lexer.Position, path string) error {
	return diagnostic.WithError(
		errors.Errorf("%s is read-only", path),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "cannot assign to read-only path %s", path),
	)
}

// WithUnrecognizedArgument reports a keyword or positional argument a
// function's Parameters() doesn't declare (spec §7's "unknown argument").
func WithUnrecognizedArgument(pos, end lexer.Position, fnName, keyword string) error {
	return diagnostic.WithError(
		errors.Errorf("%s: unrecognized argument %q", fnName, keyword),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "%s takes no argument %q", fnName, keyword),
	)
}

// WithMissingArgument reports an unbound Required parameter (spec §7's
// "missing required argument").
func WithMissingArgument(pos, end lexer.Position, fnName, keyword string) error {
	return diagnostic.WithError(
		errors.Errorf("%s: missing required argument %q", fnName, keyword),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "%s requires argument %q", fnName, keyword),
	)
}

// WithUnhandledFallible reports a fallible expression, condition, or
// assignment reaching a context that forbids fallibility without being
// wrapped in `!`, `??`, or an error-binding assignment (spec §7's
// "unhandled fallibility").
func WithUnhandledFallible(pos, end lexer.Position, what string) error {
	return diagnostic.WithError(
		errors.Errorf("unhandled fallible %s, wrap with `!` or `??`", what),
		pos, end,
		diagnostic.Spanf(diagnostic.Primary, pos, end, "this %s can fail and is not handled", what),
	)
}
