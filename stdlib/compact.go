package stdlib

import (
	"strings"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// isNullishBytes reports whether b is considered "nullish" text: exactly
// "-", or entirely whitespace codepoints. Shared by IsNullish and Compact's
// nullish flag (spec §4.5, supplemented from the teacher's original
// resolver which exposes the same rule for both call sites).
func isNullishBytes(b []byte) bool {
	s := string(b)
	if s == "-" {
		return true
	}
	return strings.TrimSpace(s) == ""
}

// IsNullish implements `is_nullish(value) -> bool`.
type IsNullish struct{}

func (IsNullish) Identifier() string { return "is_nullish" }
func (IsNullish) Parameters() []function.Parameter {
	return []function.Parameter{{Keyword: "value", KindMask: kind.Any(), Required: true}}
}
func (IsNullish) Examples() []function.Example {
	return []function.Example{{Title: "dash is nullish", Source: `is_nullish("-")`, Result: "true"}}
}

func (IsNullish) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	_, next := valueExpr.TypeInfo(state)
	return &ast.FunctionExpression{
		Def:       compiler.Infallible(kind.BooleanKind()),
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			return value.Boolean(isNullish(v)), nil
		},
	}, nil
}

func isNullish(v value.Value) bool {
	if v.IsNull() {
		return true
	}
	if b, ok := v.BytesValue(); ok {
		return isNullishBytes(b)
	}
	return false
}

// compactFlags mirrors the keyword flags `compact` accepts (spec §4.5).
type compactFlags struct {
	recursive, null, str, object, array, nullish bool
}

func isEmptyUnder(v value.Value, f compactFlags) bool {
	switch v.Tag() {
	case value.TagNull:
		return f.null
	case value.TagBytes:
		b, _ := v.BytesValue()
		if f.str && len(b) == 0 {
			return true
		}
		if f.nullish && isNullishBytes(b) {
			return true
		}
		return false
	case value.TagObject:
		obj, _ := v.ObjectValue()
		return f.object && obj.Len() == 0
	case value.TagArray:
		arr, _ := v.ArrayValue()
		return f.array && len(arr) == 0
	default:
		return false
	}
}

func compactValue(v value.Value, f compactFlags) value.Value {
	switch v.Tag() {
	case value.TagObject:
		obj, _ := v.ObjectValue()
		out := value.NewObject()
		for _, k := range obj.Keys() {
			child, _ := obj.Get(k)
			if f.recursive {
				child = compactValue(child, f)
			}
			if isEmptyUnder(child, f) {
				continue
			}
			out.Set(k, child)
		}
		return value.NewObjectValue(out)
	case value.TagArray:
		arr, _ := v.ArrayValue()
		var out []value.Value
		for _, child := range arr {
			if f.recursive {
				child = compactValue(child, f)
			}
			if isEmptyUnder(child, f) {
				continue
			}
			out = append(out, child)
		}
		return value.Array(out...)
	default:
		return v
	}
}

// Compact implements `compact(value, recursive=true, null=true, string=true,
// object=true, array=true, nullish=false)` (spec §4.5, §8).
type Compact struct{}

func (Compact) Identifier() string { return "compact" }
func (Compact) Parameters() []function.Parameter {
	boolKind := kind.BooleanKind()
	acceptedValue := kind.Union(kind.AnyArray(), kind.AnyObject())
	return []function.Parameter{
		{Keyword: "value", KindMask: acceptedValue, Required: true},
		{Keyword: "recursive", KindMask: boolKind},
		{Keyword: "null", KindMask: boolKind},
		{Keyword: "string", KindMask: boolKind},
		{Keyword: "object", KindMask: boolKind},
		{Keyword: "array", KindMask: boolKind},
		{Keyword: "nullish", KindMask: boolKind},
	}
}
func (Compact) Examples() []function.Example {
	return []function.Example{{
		Title:  "drop empty entries",
		Source: `compact({"a":{}, "b":null, "c":[null], "d":"", "e":"-", "f":true})`,
		Result: `{"e":"-", "f":true}`,
	}}
}

func (Compact) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	valueDef, next := valueExpr.TypeInfo(state)

	flagExpr := map[string]ast.Expression{}
	for _, kw := range []string{"recursive", "null", "string", "object", "array", "nullish"} {
		if expr, ok := args.Optional(kw); ok {
			flagExpr[kw] = expr
			_, next = expr.TypeInfo(next)
		}
	}

	resolveFlag := func(ctx *runtime.Context, name string, def bool) (bool, error) {
		expr, ok := flagExpr[name]
		if !ok {
			return def, nil
		}
		v, err := expr.Resolve(ctx)
		if err != nil {
			return false, err
		}
		b, ok := v.BooleanValue()
		if !ok {
			return false, runtime.NewEvalError("%s must be a boolean", name)
		}
		return b, nil
	}

	return &ast.FunctionExpression{
		Def:       compiler.Infallible(valueDef.Kind),
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			f := compactFlags{}
			if f.recursive, err = resolveFlag(ctx, "recursive", true); err != nil {
				return value.Value{}, err
			}
			if f.null, err = resolveFlag(ctx, "null", true); err != nil {
				return value.Value{}, err
			}
			if f.str, err = resolveFlag(ctx, "string", true); err != nil {
				return value.Value{}, err
			}
			if f.object, err = resolveFlag(ctx, "object", true); err != nil {
				return value.Value{}, err
			}
			if f.array, err = resolveFlag(ctx, "array", true); err != nil {
				return value.Value{}, err
			}
			if f.nullish, err = resolveFlag(ctx, "nullish", false); err != nil {
				return value.Value{}, err
			}
			return compactValue(v, f), nil
		},
	}, nil
}
