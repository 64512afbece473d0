// Package stdlib implements the builtin functions of spec §4.5: each type
// here satisfies function.Function, grounded on the representative
// contracts and worked examples in spec §8.
package stdlib

import (
	"math"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

func numericParams() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", KindMask: kind.Kind{Prim: kind.Integer | kind.Float}, Required: true},
		{Keyword: "precision", KindMask: kind.IntegerKind(), Required: false},
	}
}

func roundWith(round func(float64) float64) func(ctx *runtime.Context, valueExpr, precisionExpr ast.Expression) (value.Value, error) {
	return func(ctx *runtime.Context, valueExpr, precisionExpr ast.Expression) (value.Value, error) {
		v, err := valueExpr.Resolve(ctx)
		if err != nil {
			return value.Value{}, err
		}
		if i, ok := v.IntegerValue(); ok {
			return value.Integer(i), nil
		}
		f, ok := v.FloatValue()
		if !ok {
			return value.Value{}, runtime.NewEvalError("expected integer or float, got %s", v.Tag())
		}
		precision := int64(0)
		if precisionExpr != nil {
			pv, err := precisionExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			p, ok := pv.IntegerValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("precision must be an integer")
			}
			precision = p
		}
		scale := math.Pow(10, float64(precision))
		return value.Float(round(f*scale) / scale), nil
	}
}

// Ceil implements `ceil(value, precision=0)` (spec §4.5, §8).
type Ceil struct{}

func (Ceil) Identifier() string             { return "ceil" }
func (Ceil) Parameters() []function.Parameter { return numericParams() }
func (Ceil) Examples() []function.Example {
	return []function.Example{{Title: "round up", Source: `ceil(4.345, precision: 2)`, Result: "4.35"}}
}

func (Ceil) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	return compileRound(state, args, roundWith(math.Ceil))
}

// Floor implements `floor(value, precision=0)`.
type Floor struct{}

func (Floor) Identifier() string             { return "floor" }
func (Floor) Parameters() []function.Parameter { return numericParams() }
func (Floor) Examples() []function.Example {
	return []function.Example{{Title: "round down", Source: `floor(4.345, precision: 2)`, Result: "4.34"}}
}

func (Floor) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	return compileRound(state, args, roundWith(math.Floor))
}

func compileRound(state *compiler.TypeState, args *function.ArgumentList, fn func(ctx *runtime.Context, valueExpr, precisionExpr ast.Expression) (value.Value, error)) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	precisionExpr, _ := args.Optional("precision")

	valueDef, next := valueExpr.TypeInfo(state)
	if precisionExpr != nil {
		_, next = precisionExpr.TypeInfo(next)
	}

	resultKind := kind.Kind{Prim: kind.Integer | kind.Float}
	if valueDef.Kind.IsExact(kind.Integer) {
		resultKind = kind.IntegerKind()
	} else if valueDef.Kind.IsExact(kind.Float) {
		resultKind = kind.FloatKind()
	}

	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: resultKind, Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			return fn(ctx, valueExpr, precisionExpr)
		},
	}, nil
}
