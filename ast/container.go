package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// ArrayLiteral builds an array from a fixed sequence of element
// expressions; its type-def is the exact per-index union of its elements'
// kinds (spec §4.4).
type ArrayLiteral struct {
	Pos      lexer.Position
	Elements []Expression
}

func (a *ArrayLiteral) Position() lexer.Position { return a.Pos }

func (a *ArrayLiteral) Resolve(ctx *runtime.Context) (value.Value, error) {
	items := make([]value.Value, len(a.Elements))
	for i, el := range a.Elements {
		v, err := el.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		items[i] = v
	}
	return value.Array(items...), nil
}

func (a *ArrayLiteral) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	def := compiler.Infallible(kind.Never())
	known := map[int]kind.Kind{}
	cur := state
	for i, el := range a.Elements {
		var d compiler.TypeDef
		d, cur = el.TypeInfo(cur)
		known[i] = d.Kind
		def.Fallible = def.Fallible || d.Fallible
		def.Abortable = def.Abortable || d.Abortable
		def.Impure = def.Impure || d.Impure
	}
	def.Kind = kind.ExactArray(kind.NewCollection(known))
	return def, cur
}

// KV is a single object-literal field, keyed by a statically known name.
type KV struct {
	Name  string
	Value Expression
}

// ObjectLiteral builds an object from a fixed sequence of named fields,
// preserving declaration order (spec §4.4).
type ObjectLiteral struct {
	Pos    lexer.Position
	Fields []KV
}

func (o *ObjectLiteral) Position() lexer.Position { return o.Pos }

func (o *ObjectLiteral) Resolve(ctx *runtime.Context) (value.Value, error) {
	obj := value.NewObject()
	for _, f := range o.Fields {
		v, err := f.Value.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(f.Name, v)
	}
	return value.NewObjectValue(obj), nil
}

func (o *ObjectLiteral) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	def := compiler.Infallible(kind.Never())
	known := map[string]kind.Kind{}
	cur := state
	for _, f := range o.Fields {
		var d compiler.TypeDef
		d, cur = f.Value.TypeInfo(cur)
		known[f.Name] = d.Kind
		def.Fallible = def.Fallible || d.Fallible
		def.Abortable = def.Abortable || d.Abortable
		def.Impure = def.Impure || d.Impure
	}
	def.Kind = kind.ExactObject(kind.NewCollection(known))
	return def, cur
}
