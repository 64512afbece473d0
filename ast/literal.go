package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// Literal is a constant of any primitive kind, produced directly by the
// parser (spec §4.4).
type Literal struct {
	Pos lexer.Position
	Val value.Value
}

func (l *Literal) Position() lexer.Position { return l.Pos }

func (l *Literal) Resolve(ctx *runtime.Context) (value.Value, error) { return l.Val, nil }

func (l *Literal) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	return compiler.Infallible(kindOf(l.Val)), state
}

// kindOf returns the exact static Kind of a literal Value.
func kindOf(v value.Value) kind.Kind {
	switch v.Tag() {
	case value.TagBytes:
		return kind.BytesKind()
	case value.TagRegex:
		return kind.RegexKind()
	case value.TagInteger:
		return kind.IntegerKind()
	case value.TagFloat:
		return kind.FloatKind()
	case value.TagBoolean:
		return kind.BooleanKind()
	case value.TagTimestamp:
		return kind.TimestampKind()
	case value.TagObject:
		obj, _ := v.ObjectValue()
		known := map[string]kind.Kind{}
		for _, k := range obj.Keys() {
			child, _ := obj.Get(k)
			known[k] = kindOf(child)
		}
		return kind.ExactObject(kind.NewCollection(known))
	case value.TagArray:
		arr, _ := v.ArrayValue()
		known := map[int]kind.Kind{}
		for i, child := range arr {
			known[i] = kindOf(child)
		}
		return kind.ExactArray(kind.NewCollection(known))
	default:
		return kind.NullKind()
	}
}
