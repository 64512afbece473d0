package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// Block is a sequence of statements; its value is its last statement's
// value, and its type-def unions the last statement's kind with the
// fallibility/abortability/impurity of every statement in the sequence,
// since an early abort or unhandled error short-circuits evaluation before
// reaching the last statement (spec §4.4).
type Block struct {
	Pos   lexer.Position
	Stmts []Expression
}

func (b *Block) Position() lexer.Position { return b.Pos }

func (b *Block) Resolve(ctx *runtime.Context) (value.Value, error) {
	result := value.Null()
	for _, stmt := range b.Stmts {
		v, err := stmt.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		result = v
	}
	return result, nil
}

func (b *Block) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	if len(b.Stmts) == 0 {
		return compiler.Infallible(kind.NullKind()), state
	}
	cur := state
	var def compiler.TypeDef
	for i, stmt := range b.Stmts {
		var d compiler.TypeDef
		d, cur = stmt.TypeInfo(cur)
		if i == len(b.Stmts)-1 {
			def.Kind = d.Kind
		}
		def.Fallible = def.Fallible || d.Fallible
		def.Abortable = def.Abortable || d.Abortable
		def.Impure = def.Impure || d.Impure
	}
	return def, cur
}
