package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// Variable reads a local variable binding (spec §4.4). Its type-def is
// looked up in TypeState.local; referencing an unbound name fails
// compilation (surfaced as TypeDef.Kind = Never with Fallible set, leaving
// the concrete diagnostic to the surface compiler which has source
// position context for it).
type Variable struct {
	Pos  lexer.Position
	Name string
}

func (v *Variable) Position() lexer.Position { return v.Pos }

func (v *Variable) Resolve(ctx *runtime.Context) (value.Value, error) {
	val, ok := ctx.State.Get(v.Name)
	if !ok {
		return value.Value{}, runtime.NewEvalError("undefined variable %q", v.Name)
	}
	return val, nil
}

func (v *Variable) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	k, ok := state.Local(v.Name)
	if !ok {
		return compiler.TypeDef{Kind: kind.Never(), Fallible: true}, state
	}
	return compiler.Infallible(k), state
}
