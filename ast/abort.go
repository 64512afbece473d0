package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// Abort terminates the program with an Abort error (spec §4.4), optionally
// carrying a message expression.
type Abort struct {
	Pos     lexer.Position
	Message Expression // nil if absent
}

func (a *Abort) Position() lexer.Position { return a.Pos }

func (a *Abort) Resolve(ctx *runtime.Context) (value.Value, error) {
	msg := ""
	if a.Message != nil {
		v, err := a.Message.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		msg = v.String()
	}
	return value.Value{}, &runtime.AbortError{Message: msg}
}

func (a *Abort) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	cur := state
	if a.Message != nil {
		_, cur = a.Message.TypeInfo(cur)
	}
	return compiler.TypeDef{Kind: kind.Never(), Abortable: true}, cur
}
