package stdlib

import (
	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// ObjectFromArray implements `object_from_array(values, keys?)` (spec
// §4.5, §8): either values is an array of [key, value] pairs (a missing
// value becomes Null; a Null key drops the entry), or values and keys are
// a parallel pair of value/key arrays.
type ObjectFromArray struct{}

func (ObjectFromArray) Identifier() string { return "object_from_array" }
func (ObjectFromArray) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "values", KindMask: kind.AnyArray(), Required: true},
		{Keyword: "keys", KindMask: kind.AnyArray()},
	}
}
func (ObjectFromArray) Examples() []function.Example {
	return []function.Example{{
		Title:  "pairs, dropping a null key",
		Source: `object_from_array([["one",1],[null,2],["two",3]])`,
		Result: `{"one":1, "two":3}`,
	}}
}

func (ObjectFromArray) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valuesExpr, err := args.Required("values")
	if err != nil {
		return nil, err
	}
	keysExpr, _ := args.Optional("keys")
	_, next := valuesExpr.TypeInfo(state)
	if keysExpr != nil {
		_, next = keysExpr.TypeInfo(next)
	}
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: kind.AnyObject(), Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			valuesVal, err := valuesExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			values, ok := valuesVal.ArrayValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("values must be an array")
			}
			out := value.NewObject()
			if keysExpr == nil {
				for _, pair := range values {
					elems, ok := pair.ArrayValue()
					if !ok || len(elems) == 0 {
						return value.Value{}, runtime.NewEvalError("each entry must be a [key, value] pair")
					}
					if elems[0].IsNull() {
						continue
					}
					key, ok := elems[0].StringValue()
					if !ok {
						return value.Value{}, runtime.NewEvalError("pair key must be a string")
					}
					val := value.Null()
					if len(elems) > 1 {
						val = elems[1]
					}
					out.Set(key, val)
				}
				return value.NewObjectValue(out), nil
			}
			keysVal, err := keysExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			keys, ok := keysVal.ArrayValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("keys must be an array")
			}
			n := len(keys)
			if len(values) < n {
				n = len(values)
			}
			for i := 0; i < n; i++ {
				if keys[i].IsNull() {
					continue
				}
				key, ok := keys[i].StringValue()
				if !ok {
					return value.Value{}, runtime.NewEvalError("key must be a string")
				}
				out.Set(key, values[i])
			}
			return value.NewObjectValue(out), nil
		},
	}, nil
}

// Zip implements `zip(array_0, array_1?)` (spec §4.5, §8): with one
// argument, it is an array-of-arrays transposed to the shortest row's
// length; with two, the arguments are pairwise-zipped to the shorter's
// length.
type Zip struct{}

func (Zip) Identifier() string { return "zip" }
func (Zip) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "array_0", KindMask: kind.AnyArray(), Required: true},
		{Keyword: "array_1", KindMask: kind.AnyArray()},
	}
}
func (Zip) Examples() []function.Example {
	return []function.Example{{Title: "transpose", Source: `zip([[1,2,3],[4,5]])`, Result: `[[1,4],[2,5]]`}}
}

func (Zip) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	array0Expr, err := args.Required("array_0")
	if err != nil {
		return nil, err
	}
	array1Expr, _ := args.Optional("array_1")
	_, next := array0Expr.TypeInfo(state)
	if array1Expr != nil {
		_, next = array1Expr.TypeInfo(next)
	}
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: kind.AnyArray(), Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v0, err := array0Expr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			arr0, ok := v0.ArrayValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("array_0 must be an array")
			}
			if array1Expr == nil {
				rows := make([][]value.Value, len(arr0))
				shortest := -1
				for i, r := range arr0 {
					row, ok := r.ArrayValue()
					if !ok {
						return value.Value{}, runtime.NewEvalError("array_0 must be an array of arrays")
					}
					rows[i] = row
					if shortest == -1 || len(row) < shortest {
						shortest = len(row)
					}
				}
				if shortest < 0 {
					shortest = 0
				}
				out := make([]value.Value, shortest)
				for col := 0; col < shortest; col++ {
					tuple := make([]value.Value, len(rows))
					for i, row := range rows {
						tuple[i] = row[col]
					}
					out[col] = value.Array(tuple...)
				}
				return value.Array(out...), nil
			}
			v1, err := array1Expr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			arr1, ok := v1.ArrayValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("array_1 must be an array")
			}
			n := len(arr0)
			if len(arr1) < n {
				n = len(arr1)
			}
			out := make([]value.Value, n)
			for i := 0; i < n; i++ {
				out[i] = value.Array(arr0[i], arr1[i])
			}
			return value.Array(out...), nil
		},
	}, nil
}
