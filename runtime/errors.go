package runtime

import "fmt"

// AbortError is raised by the `abort` expression and is distinguished from
// an ordinary evaluation error only at Runtime.Resolve's top-level
// boundary (spec §4.4, §7).
type AbortError struct {
	Message string
}

func (e *AbortError) Error() string {
	if e.Message == "" {
		return "program aborted"
	}
	return fmt.Sprintf("program aborted: %s", e.Message)
}

// EvalError is an ordinary ExpressionError::Error — expected-kind
// mismatch, regex-no-match, decode failure, path-segment-type mismatch,
// numeric overflow, and so on (spec §7). Stdlib functions and core nodes
// wrap their runtime failures in this type so a fallibility-handling
// construct (`??`, `!`, error-binding assignment) can distinguish it from
// an AbortError, which it must never swallow.
type EvalError struct {
	Err error
}

func (e *EvalError) Error() string { return e.Err.Error() }
func (e *EvalError) Unwrap() error { return e.Err }

func NewEvalError(format string, args ...interface{}) *EvalError {
	return &EvalError{Err: fmt.Errorf(format, args...)}
}

func WrapEvalError(err error) *EvalError {
	if err == nil {
		return nil
	}
	return &EvalError{Err: err}
}

// Terminate is the two-variant outcome of Runtime.Resolve (spec §4.4,
// §7): either the program ran to completion with a value, or it
// terminated via an uncaught abort or an uncaught error.
type Terminate struct {
	Abort bool
	Err   error
}

func (t *Terminate) Error() string {
	if t.Abort {
		return fmt.Sprintf("aborted: %s", t.Err)
	}
	return fmt.Sprintf("error: %s", t.Err)
}

func (t *Terminate) Unwrap() error { return t.Err }
