// Package function implements the stdlib function-call subsystem (spec
// §4.5): the Function contract every builtin implements, the ArgumentList
// the call parser produces, and the registry stdlib functions are looked up
// through. It generalizes the teacher's builtin/builtin.go
// Callable-keyed-by-Kind registry pattern from a fixed object-type grammar
// to remap's dynamic argument-list call form.
package function

import (
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/value"
)

// Parameter describes one named argument a function declares (spec §4.5).
type Parameter struct {
	Keyword     string
	KindMask    kind.Kind
	Required    bool
	Description string
	Default     *value.Value // nil if Required or if there is no default
}

// Example is a documented call/result pair surfaced by `examples()`, used
// both for documentation generation and as fixtures for function tests.
type Example struct {
	Title  string
	Source string
	Result string
}
