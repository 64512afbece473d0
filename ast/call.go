package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// FunctionExpression is the concrete node a stdlib function's Compile
// builds (spec §4.5). The function package constructs one per call site:
// it has already walked the argument expressions' TypeInfo during
// compilation, so Def and NextState are precomputed rather than derived
// here — TypeInfo just returns them. This keeps ast free of any import on
// the function package (which itself must import ast, for Expression in
// its ArgumentList), avoiding an import cycle.
type FunctionExpression struct {
	Pos        lexer.Position
	Identifier string
	Def        compiler.TypeDef
	NextState  *compiler.TypeState
	ResolveFn  func(ctx *runtime.Context) (value.Value, error)
}

func (f *FunctionExpression) Position() lexer.Position { return f.Pos }

func (f *FunctionExpression) Resolve(ctx *runtime.Context) (value.Value, error) {
	return f.ResolveFn(ctx)
}

func (f *FunctionExpression) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	return f.Def, f.NextState
}
