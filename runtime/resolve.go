package runtime

import (
	"time"

	"github.com/openllb/remap/path"
	"github.com/openllb/remap/value"
)

// Resolvable is the minimal shape a compiled program (the root of the
// ast.Expression tree) must satisfy to be run by Runtime.Resolve. The
// runtime package defines this interface itself, rather than importing the
// ast package, because ast needs *Context from this package for every
// node's own Resolve method — ast imports runtime, so runtime cannot import
// ast back. ast.Expression values satisfy Resolvable structurally.
type Resolvable interface {
	Resolve(ctx *Context) (value.Value, error)
}

// Runtime runs a single compiled program against a host-supplied Target.
// It carries no state of its own between calls; RuntimeState is constructed
// fresh (or reset) per resolve.
type Runtime struct{}

func New() *Runtime { return &Runtime{} }

// Resolve evaluates program against target, per spec §4.4: it first verifies
// the target's event root exists (a host target that reports an absent
// event root is a host-side contract violation, surfaced as an error rather
// than run through the program), then invokes program.Resolve with a fresh
// Context, and maps the two kinds of uncaught termination onto Terminate.
func (r *Runtime) Resolve(target Target, program Resolvable, timezone *time.Location) (value.Value, *Terminate) {
	root := path.NewTargetPath(path.Event, path.Root())
	if _, ok, err := target.Get(root); err != nil {
		return value.Value{}, &Terminate{Abort: false, Err: err}
	} else if !ok {
		return value.Value{}, &Terminate{Abort: false, Err: NewEvalError("target event root does not exist")}
	}

	state := NewRuntimeState()
	ctx := NewContext(target, state, timezone)

	result, err := program.Resolve(ctx)
	if err != nil {
		if abortErr, ok := err.(*AbortError); ok {
			return value.Value{}, &Terminate{Abort: true, Err: abortErr}
		}
		return value.Value{}, &Terminate{Abort: false, Err: err}
	}
	return result, nil
}
