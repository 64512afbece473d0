package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// If evaluates Cond and runs Then or Else, joining both branches' type-defs
// by union and accumulating fallibility/abortability/impurity across the
// condition and both branches (spec §4.4). A missing Else
// behaves as an empty block yielding Null.
type If struct {
	Pos  lexer.Position
	Cond Expression
	Then *Block
	Else *Block // nil if absent
}

func (n *If) Position() lexer.Position { return n.Pos }

func (n *If) Resolve(ctx *runtime.Context) (value.Value, error) {
	condVal, err := n.Cond.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	cond, ok := condVal.BooleanValue()
	if !ok {
		return value.Value{}, runtime.NewEvalError("if condition must be a boolean, got %s", condVal.Tag())
	}
	if cond {
		return n.Then.Resolve(ctx)
	}
	if n.Else != nil {
		return n.Else.Resolve(ctx)
	}
	return value.Null(), nil
}

func (n *If) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	condDef, afterCond := n.Cond.TypeInfo(state)

	thenDef, thenState := n.Then.TypeInfo(afterCond)

	var elseDef compiler.TypeDef
	var elseState *compiler.TypeState
	if n.Else != nil {
		elseDef, elseState = n.Else.TypeInfo(afterCond)
	} else {
		elseDef = compiler.Infallible(kind.NullKind())
		elseState = afterCond
	}

	joined := thenDef.Merge(elseDef)
	joined.Fallible = joined.Fallible || condDef.Fallible
	joined.Abortable = joined.Abortable || condDef.Abortable
	joined.Impure = joined.Impure || condDef.Impure

	return joined, thenState.Merge(elseState)
}
