package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// PathQuery addresses either a target path (event or metadata root), a
// variable's sub-path, or an arbitrary sub-expression indexed by a
// sub-path — exactly one of Prefix, Variable, or Base is set (spec §4.4).
// It never fails on a missing key, resolving to Null instead.
type PathQuery struct {
	Pos lexer.Position

	Prefix   *path.Prefix // set for a target (`.`/`%`) query
	Variable *string      // set for a variable query
	Base     Expression   // set for an arbitrary-expression query

	SubPath path.Path
}

func (q *PathQuery) Position() lexer.Position { return q.Pos }

// ExternalPath exposes the underlying TargetPath for downstream operations
// such as `del`, which need to mutate the same location the query reads
// from. ok is false unless q addresses a target path.
func (q *PathQuery) ExternalPath() (path.TargetPath, bool) {
	if q.Prefix == nil {
		return path.TargetPath{}, false
	}
	return path.NewTargetPath(*q.Prefix, q.SubPath), true
}

// VariableIdent exposes the base variable name for a variable query.
func (q *PathQuery) VariableIdent() (string, bool) {
	if q.Variable == nil {
		return "", false
	}
	return *q.Variable, true
}

// ExpressionTarget exposes the arbitrary sub-expression being indexed, for
// an expression-target query.
func (q *PathQuery) ExpressionTarget() (Expression, bool) {
	return q.Base, q.Base != nil
}

func (q *PathQuery) Resolve(ctx *runtime.Context) (value.Value, error) {
	switch {
	case q.Prefix != nil:
		tp := path.NewTargetPath(*q.Prefix, q.SubPath)
		v, ok, err := ctx.Target.Get(tp)
		if err != nil {
			return value.Value{}, runtime.WrapEvalError(err)
		}
		if !ok {
			return value.Null(), nil
		}
		return v, nil
	case q.Variable != nil:
		base, ok := ctx.State.Get(*q.Variable)
		if !ok {
			return value.Value{}, runtime.NewEvalError("undefined variable %q", *q.Variable)
		}
		got, ok := value.Get(&base, q.SubPath.Iter())
		if !ok {
			return value.Null(), nil
		}
		return got, nil
	default:
		base, err := q.Base.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		got, ok := value.Get(&base, q.SubPath.Iter())
		if !ok {
			return value.Null(), nil
		}
		return got, nil
	}
}

func (q *PathQuery) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	switch {
	case q.Prefix != nil:
		root := state.Target
		if *q.Prefix == path.Metadata {
			root = state.Metadata
		}
		return compiler.Infallible(root.AtPath(q.SubPath).OrNull()), state
	case q.Variable != nil:
		base, ok := state.Local(*q.Variable)
		if !ok {
			return compiler.TypeDef{Kind: kind.Never(), Fallible: true}, state
		}
		return compiler.Infallible(base.AtPath(q.SubPath).OrNull()), state
	default:
		def, next := q.Base.TypeInfo(state)
		result := def
		result.Kind = def.Kind.AtPath(q.SubPath).OrNull()
		return result, next
	}
}
