package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// ErrorCoalesce implements the `a ?? b` operator: if Primary raises an
// ordinary error, Fallback is evaluated and its value used instead. An
// Abort from Primary is never caught here (spec §4.4, §7).
type ErrorCoalesce struct {
	Pos      lexer.Position
	Primary  Expression
	Fallback Expression
}

func (e *ErrorCoalesce) Position() lexer.Position { return e.Pos }

func (e *ErrorCoalesce) Resolve(ctx *runtime.Context) (value.Value, error) {
	v, err := e.Primary.Resolve(ctx)
	if err == nil {
		return v, nil
	}
	if _, ok := err.(*runtime.AbortError); ok {
		return value.Value{}, err
	}
	return e.Fallback.Resolve(ctx)
}

func (e *ErrorCoalesce) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	primaryDef, afterPrimary := e.Primary.TypeInfo(state)
	fallbackDef, afterFallback := e.Fallback.TypeInfo(afterPrimary)

	joined := primaryDef.Merge(fallbackDef)
	// The coalesce itself only remains fallible if the fallback is also
	// fallible — a non-fallible fallback fully discharges Primary's
	// fallibility for the surrounding expression.
	joined.Fallible = fallbackDef.Fallible
	return joined, afterFallback
}

// AcknowledgeFallible marks that the surrounding statement has explicitly
// handled Inner's fallibility (the `!` suffix) without binding the error to
// a variable. The parser establishes where this marker appears; the core's
// only obligation is that a fallible expression be wrapped in one of
// AcknowledgeFallible, ErrorCoalesce, or an Assignment with ErrTarget set
// before it reaches a context that forbids fallible operands (spec §4.4).
type AcknowledgeFallible struct {
	Pos   lexer.Position
	Inner Expression
}

func (a *AcknowledgeFallible) Position() lexer.Position { return a.Pos }

func (a *AcknowledgeFallible) Resolve(ctx *runtime.Context) (value.Value, error) {
	return a.Inner.Resolve(ctx)
}

func (a *AcknowledgeFallible) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	def, next := a.Inner.TypeInfo(state)
	def.Fallible = false
	return def, next
}
