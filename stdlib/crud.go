package stdlib

import (
	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// pathFromArray converts a dynamic path argument — an array of Bytes
// (field) and Integer (index) segments — into a path.Path, failing on any
// other element kind (spec §4.5).
func pathFromArray(arr []value.Value) (path.Path, error) {
	segs := make([]path.Segment, 0, len(arr))
	for _, el := range arr {
		switch el.Tag() {
		case value.TagBytes:
			name, _ := el.StringValue()
			segs = append(segs, path.NewField(name, false))
		case value.TagInteger:
			i, _ := el.IntegerValue()
			segs = append(segs, path.NewIndex(int(i)))
		default:
			return path.Path{}, runtime.NewEvalError("path segment must be a string or integer, got %s", el.Tag())
		}
	}
	return path.New(segs...), nil
}

func pathArrayKind() kind.Kind {
	return kind.AnyArray()
}

// Get implements `get(value, path: Array)`, a dynamic read returning Null
// on any miss (spec §4.5).
type Get struct{}

func (Get) Identifier() string { return "get" }
func (Get) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", KindMask: kind.Any(), Required: true},
		{Keyword: "path", KindMask: pathArrayKind(), Required: true},
	}
}
func (Get) Examples() []function.Example {
	return []function.Example{{Title: "dynamic get", Source: `get({"a": 1}, ["a"])`, Result: "1"}}
}

func (Get) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	pathExpr, err := args.Required("path")
	if err != nil {
		return nil, err
	}
	_, next := valueExpr.TypeInfo(state)
	_, next = pathExpr.TypeInfo(next)
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: kind.Any(), Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			root, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			_, p, err := resolveDynamicPath(ctx, pathExpr)
			if err != nil {
				return value.Value{}, err
			}
			got, ok := value.Get(&root, p.Iter())
			if !ok {
				return value.Null(), nil
			}
			return got, nil
		},
	}, nil
}

func resolveDynamicPath(ctx *runtime.Context, pathExpr ast.Expression) ([]value.Value, path.Path, error) {
	pv, err := pathExpr.Resolve(ctx)
	if err != nil {
		return nil, path.Path{}, err
	}
	arr, ok := pv.ArrayValue()
	if !ok {
		return nil, path.Path{}, runtime.NewEvalError("path must be an array")
	}
	p, err := pathFromArray(arr)
	if err != nil {
		return nil, path.Path{}, err
	}
	return arr, p, nil
}

// Set implements `set(value, path, data)`, a dynamic write returning a new
// value with data stored at path (spec §4.5).
type Set struct{}

func (Set) Identifier() string { return "set" }
func (Set) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", KindMask: kind.Any(), Required: true},
		{Keyword: "path", KindMask: pathArrayKind(), Required: true},
		{Keyword: "data", KindMask: kind.Any(), Required: true},
	}
}
func (Set) Examples() []function.Example {
	return []function.Example{{Title: "dynamic set", Source: `set({}, ["a"], 1)`, Result: `{"a": 1}`}}
}

func (Set) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	pathExpr, err := args.Required("path")
	if err != nil {
		return nil, err
	}
	dataExpr, err := args.Required("data")
	if err != nil {
		return nil, err
	}
	valueDef, next := valueExpr.TypeInfo(state)
	_, next = pathExpr.TypeInfo(next)
	_, next = dataExpr.TypeInfo(next)
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: valueDef.Kind, Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			root, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			_, p, err := resolveDynamicPath(ctx, pathExpr)
			if err != nil {
				return value.Value{}, err
			}
			data, err := dataExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			if _, ok := value.Insert(&root, p.Iter(), data); !ok {
				return value.Value{}, runtime.NewEvalError("invalid path")
			}
			return root, nil
		},
	}, nil
}

// Remove implements `remove(value, path, compact=false)`, a dynamic delete
// returning the value with the path removed (spec §4.5).
type Remove struct{}

func (Remove) Identifier() string { return "remove" }
func (Remove) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", KindMask: kind.Any(), Required: true},
		{Keyword: "path", KindMask: pathArrayKind(), Required: true},
		{Keyword: "compact", KindMask: kind.BooleanKind()},
	}
}
func (Remove) Examples() []function.Example {
	return []function.Example{{Title: "dynamic remove", Source: `remove({"a": 1}, ["a"])`, Result: `{}`}}
}

func (Remove) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	pathExpr, err := args.Required("path")
	if err != nil {
		return nil, err
	}
	compactExpr, _ := args.Optional("compact")
	valueDef, next := valueExpr.TypeInfo(state)
	_, next = pathExpr.TypeInfo(next)
	if compactExpr != nil {
		_, next = compactExpr.TypeInfo(next)
	}
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: valueDef.Kind, Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			root, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			_, p, err := resolveDynamicPath(ctx, pathExpr)
			if err != nil {
				return value.Value{}, err
			}
			compact := false
			if compactExpr != nil {
				cv, err := compactExpr.Resolve(ctx)
				if err != nil {
					return value.Value{}, err
				}
				compact, _ = cv.BooleanValue()
			}
			value.Remove(&root, p.Iter(), compact)
			return root, nil
		},
	}, nil
}

// Del implements `del(target: Query, compact=false)`: static deletion
// operating on the target path or variable sub-path a Query node carries,
// returning the removed value or Null (spec §4.5, §8).
type Del struct{}

func (Del) Identifier() string { return "del" }
func (Del) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "target", KindMask: kind.Any(), Required: true},
		{Keyword: "compact", KindMask: kind.BooleanKind()},
	}
}
func (Del) Examples() []function.Example {
	return []function.Example{{Title: "delete a field", Source: `del(.foo)`, Result: `"bar"`}}
}

func (Del) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	query, err := args.RequiredQuery("target")
	if err != nil {
		return nil, err
	}
	compactExpr, _ := args.Optional("compact")

	queryDef, next := query.TypeInfo(state)
	compactConst := false
	compactKnown := true
	if compactExpr != nil {
		_, next = compactExpr.TypeInfo(next)
		if lit, ok := compactExpr.(*ast.Literal); ok {
			compactConst, _ = lit.Val.BooleanValue()
		} else {
			compactKnown = false
		}
	}

	applyRemoval := func(s *compiler.TypeState, compact bool) *compiler.TypeState {
		out := s.Clone()
		if tp, ok := query.ExternalPath(); ok {
			if tp.Prefix == path.Metadata {
				out.Metadata = out.Metadata.RemoveAtPath(tp.Path, compact)
			} else {
				out.Target = out.Target.RemoveAtPath(tp.Path, compact)
			}
		} else if name, ok := query.VariableIdent(); ok {
			if cur, bound := out.Local(name); bound {
				out.BindLocal(name, cur.RemoveAtPath(query.SubPath, compact))
			}
		}
		return out
	}

	if compactKnown {
		next = applyRemoval(next, compactConst)
	} else {
		trueState := applyRemoval(next, true)
		falseState := applyRemoval(next, false)
		next = trueState.Merge(falseState)
	}

	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: queryDef.Kind.OrNull(), Impure: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			compact := false
			if compactExpr != nil {
				cv, err := compactExpr.Resolve(ctx)
				if err != nil {
					return value.Value{}, err
				}
				compact, _ = cv.BooleanValue()
			}
			if tp, ok := query.ExternalPath(); ok {
				removed, ok, err := ctx.Target.Remove(tp, compact)
				if err != nil {
					return value.Value{}, runtime.WrapEvalError(err)
				}
				if !ok {
					return value.Null(), nil
				}
				return removed, nil
			}
			if name, ok := query.VariableIdent(); ok {
				cur, bound := ctx.State.Get(name)
				if !bound {
					return value.Null(), nil
				}
				removed, ok := value.Remove(&cur, query.SubPath.Iter(), compact)
				ctx.State.Set(name, cur)
				if !ok {
					return value.Null(), nil
				}
				return removed, nil
			}
			return value.Null(), nil
		},
	}, nil
}
