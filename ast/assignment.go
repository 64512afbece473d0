package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// AssignTarget names an l-value: a target path (event/metadata root) or a
// variable's sub-path. Exactly one of Prefix or Variable is set.
type AssignTarget struct {
	Prefix   *path.Prefix
	Variable *string
	SubPath  path.Path
}

// Assignment stores the result of RHS at LHS (spec §4.4). When ErrTarget is
// set, this is the `value, err = fallible()` form: a failing RHS binds Null
// to LHS and the error message to ErrTarget instead of propagating, making
// the statement itself infallible to its surrounding block.
type Assignment struct {
	Pos       lexer.Position
	LHS       AssignTarget
	ErrTarget *AssignTarget
	RHS       Expression
}

func (a *Assignment) Position() lexer.Position { return a.Pos }

func (a *Assignment) Resolve(ctx *runtime.Context) (value.Value, error) {
	v, err := a.RHS.Resolve(ctx)
	if err != nil {
		if abortErr, ok := err.(*runtime.AbortError); ok {
			return value.Value{}, abortErr
		}
		if a.ErrTarget == nil {
			return value.Value{}, err
		}
		if setErr := assignTo(ctx, a.LHS, value.Null()); setErr != nil {
			return value.Value{}, setErr
		}
		if setErr := assignTo(ctx, *a.ErrTarget, value.String(err.Error())); setErr != nil {
			return value.Value{}, setErr
		}
		return value.Null(), nil
	}
	if setErr := assignTo(ctx, a.LHS, v); setErr != nil {
		return value.Value{}, setErr
	}
	if a.ErrTarget != nil {
		if setErr := assignTo(ctx, *a.ErrTarget, value.Null()); setErr != nil {
			return value.Value{}, setErr
		}
	}
	return v, nil
}

func assignTo(ctx *runtime.Context, t AssignTarget, v value.Value) error {
	switch {
	case t.Prefix != nil:
		tp := path.NewTargetPath(*t.Prefix, t.SubPath)
		if err := ctx.Target.Insert(tp, v); err != nil {
			return runtime.WrapEvalError(err)
		}
		return nil
	case t.Variable != nil:
		cur, ok := ctx.State.Get(*t.Variable)
		if !ok {
			cur = value.Null()
		}
		value.Insert(&cur, t.SubPath.Iter(), v)
		ctx.State.Set(*t.Variable, cur)
		return nil
	default:
		return runtime.NewEvalError("invalid assignment target")
	}
}

func (a *Assignment) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	rhsDef, next := a.RHS.TypeInfo(state)
	out := next.Clone()
	applyAssignKind(out, a.LHS, rhsDef.Kind)

	fallible := rhsDef.Fallible
	if a.ErrTarget != nil {
		applyAssignKind(out, *a.ErrTarget, kind.BytesKind().OrNull())
		fallible = false
	}
	return compiler.TypeDef{
		Kind:      rhsDef.Kind,
		Fallible:  fallible,
		Abortable: rhsDef.Abortable,
		Impure:    true,
	}, out
}

func applyAssignKind(state *compiler.TypeState, t AssignTarget, k kind.Kind) {
	switch {
	case t.Prefix != nil:
		if *t.Prefix == path.Metadata {
			state.Metadata = kind.InsertAtPath(state.Metadata, t.SubPath, k)
		} else {
			state.Target = kind.InsertAtPath(state.Target, t.SubPath, k)
		}
	case t.Variable != nil:
		if t.SubPath.IsRoot() {
			state.BindLocal(*t.Variable, k)
			return
		}
		cur, ok := state.Local(*t.Variable)
		if !ok {
			cur = kind.NullKind()
		}
		state.BindLocal(*t.Variable, kind.InsertAtPath(cur, t.SubPath, k))
	}
}
