package function

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/errdefs"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/protoset"
)

// CompileContext exposes the compile-time host facts a function may need
// beyond its arguments: which target paths are read-only, so
// assignment-like functions such as `del` can reject a static attempt to
// mutate one (spec §4.5, §6), and the shared descriptor Loader
// `encode_proto`/`parse_proto` resolve message types through (spec §9:
// descriptor resources are shared, immutable, lazily-initialised
// collaborators borrowed rather than owned by the core).
type CompileContext struct {
	IsReadOnlyPath func(tp path.TargetPath) bool
	Protoset       *protoset.Loader
}

// Function is the contract every stdlib builtin implements (spec §4.5).
type Function interface {
	Identifier() string
	Parameters() []Parameter
	Examples() []Example
	Compile(state *compiler.TypeState, cctx *CompileContext, args *ArgumentList) (*ast.FunctionExpression, error)
}

// Validate applies the common compile-time argument rules every call goes
// through before a function's own Compile logic runs: each declared
// parameter's Kind must intersect the argument's inferred Kind, no
// unrecognized keyword is present, and every Required parameter is bound
// (spec §4.5). pos anchors the raised errdefs diagnostic at the call site.
func Validate(f Function, args *ArgumentList, state *compiler.TypeState, pos lexer.Position) error {
	declared := map[string]Parameter{}
	for _, p := range f.Parameters() {
		declared[p.Keyword] = p
	}
	for _, kw := range args.Keys() {
		if _, ok := declared[kw]; !ok {
			return errdefs.WithUnrecognizedArgument(pos, pos, f.Identifier(), kw)
		}
	}
	for _, p := range f.Parameters() {
		expr, bound := args.Optional(p.Keyword)
		if !bound {
			if p.Required {
				return errdefs.WithMissingArgument(pos, pos, f.Identifier(), p.Keyword)
			}
			continue
		}
		argDef, _ := expr.TypeInfo(state)
		if intersected := argDef.Kind.Prim & p.KindMask.Prim; intersected == 0 && p.KindMask.Prim != 0 {
			return errdefs.WithWrongType(pos, pos, p.KindMask, argDef.Kind)
		}
	}
	return nil
}

// Registry looks builtins up by call identifier, mirroring the teacher's
// Callables map keyed by object Kind — generalized here to a flat
// identifier namespace since remap calls are not dispatched on a receiver
// type (spec §4.5).
type Registry struct {
	fns map[string]Function
}

func NewRegistry(fns ...Function) *Registry {
	r := &Registry{fns: map[string]Function{}}
	for _, f := range fns {
		r.fns[f.Identifier()] = f
	}
	return r
}

func (r *Registry) Lookup(name string) (Function, bool) {
	f, ok := r.fns[name]
	return f, ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.fns))
	for name := range r.fns {
		out = append(out, name)
	}
	return out
}
