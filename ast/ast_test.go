package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// stubTarget is a minimal runtime.Target for exercising node Resolve
// methods directly, without going through the surface compiler.
type stubTarget struct {
	event    value.Value
	readOnly map[string]bool
}

func newStubTarget() *stubTarget {
	return &stubTarget{event: value.EmptyObject(), readOnly: map[string]bool{}}
}

func (t *stubTarget) Get(tp path.TargetPath) (value.Value, bool, error) {
	if tp.Path.IsRoot() {
		return t.event, true, nil
	}
	return value.Get(&t.event, tp.Path.Iter())
}

func (t *stubTarget) Insert(tp path.TargetPath, v value.Value) error {
	_, ok := value.Insert(&t.event, tp.Path.Iter(), v)
	if !ok {
		return runtime.NewEvalError("invalid path")
	}
	return nil
}

func (t *stubTarget) Remove(tp path.TargetPath, compact bool) (value.Value, bool, error) {
	v, ok := value.Remove(&t.event, tp.Path.Iter(), compact)
	return v, ok, nil
}

func (t *stubTarget) IsReadOnlyPath(tp path.TargetPath) bool { return t.readOnly[tp.String()] }

func newCtx(target *stubTarget) *runtime.Context {
	return runtime.NewContext(target, runtime.NewRuntimeState(), nil)
}

func mustPath(t *testing.T, s string) path.Path {
	t.Helper()
	p, err := path.ParsePath(s)
	require.NoError(t, err)
	return p
}

func TestLiteralResolveAndTypeInfo(t *testing.T) {
	lit := &Literal{Val: value.Integer(7)}
	v, err := lit.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(7), iv)

	def, _ := lit.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Kind.IsExact(kind.Integer))
	assert.False(t, def.Fallible)
}

func TestArrayLiteralResolveAndTypeInfo(t *testing.T) {
	arr := &ArrayLiteral{Elements: []Expression{
		&Literal{Val: value.Integer(1)},
		&Literal{Val: value.String("x")},
	}}
	v, err := arr.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	elems, ok := v.ArrayValue()
	require.True(t, ok)
	assert.Equal(t, 2, len(elems))

	def, _ := arr.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Kind.IsArray())
	assert.True(t, def.Kind.Array.Known[0].IsExact(kind.Integer))
	assert.True(t, def.Kind.Array.Known[1].IsExact(kind.Bytes))
}

func TestObjectLiteralResolveAndTypeInfo(t *testing.T) {
	obj := &ObjectLiteral{Fields: []KV{
		{Name: "a", Value: &Literal{Val: value.Integer(1)}},
		{Name: "b", Value: &Literal{Val: value.Boolean(true)}},
	}}
	v, err := obj.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	o, ok := v.ObjectValue()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, o.Keys())

	def, _ := obj.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Kind.IsObject())
	assert.True(t, def.Kind.Object.Known["a"].IsExact(kind.Integer))
}

func TestVariableUndefinedErrors(t *testing.T) {
	v := &Variable{Name: "x"}
	_, err := v.Resolve(newCtx(newStubTarget()))
	assert.Error(t, err)

	def, _ := v.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Fallible)
}

func TestVariableBoundResolvesFromState(t *testing.T) {
	ctx := newCtx(newStubTarget())
	ctx.State.Set("x", value.Integer(5))

	v := &Variable{Name: "x"}
	got, err := v.Resolve(ctx)
	require.NoError(t, err)
	iv, _ := got.IntegerValue()
	assert.Equal(t, int64(5), iv)
}

func TestBlockResultIsLastStatement(t *testing.T) {
	b := &Block{Stmts: []Expression{
		&Literal{Val: value.Integer(1)},
		&Literal{Val: value.Integer(2)},
	}}
	v, err := b.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(2), iv)
}

func TestEmptyBlockResolvesNull(t *testing.T) {
	b := &Block{}
	v, err := b.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	def, _ := b.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Kind.IsExact(kind.Null))
}

func TestAssignmentToTargetPath(t *testing.T) {
	target := newStubTarget()
	ctx := newCtx(target)
	ev := path.Event

	a := &Assignment{
		LHS: AssignTarget{Prefix: &ev, SubPath: mustPath(t, "foo")},
		RHS: &Literal{Val: value.Integer(9)},
	}
	_, err := a.Resolve(ctx)
	require.NoError(t, err)

	got, ok, _ := target.Get(path.NewTargetPath(path.Event, mustPath(t, "foo")))
	assert.True(t, ok)
	iv, _ := got.IntegerValue()
	assert.Equal(t, int64(9), iv)
}

func TestAssignmentWithErrTargetCatchesError(t *testing.T) {
	target := newStubTarget()
	ctx := newCtx(target)
	ev := path.Event

	failing := &Variable{Name: "undefined"}
	lhs := AssignTarget{Prefix: &ev, SubPath: mustPath(t, "foo")}
	errLhs := AssignTarget{Prefix: &ev, SubPath: mustPath(t, "err")}

	a := &Assignment{LHS: lhs, ErrTarget: &errLhs, RHS: failing}
	_, err := a.Resolve(ctx)
	require.NoError(t, err, "a caught error must not propagate")

	fooVal, _, _ := target.Get(path.NewTargetPath(path.Event, mustPath(t, "foo")))
	assert.True(t, fooVal.IsNull())

	errVal, ok, _ := target.Get(path.NewTargetPath(path.Event, mustPath(t, "err")))
	assert.True(t, ok)
	s, _ := errVal.StringValue()
	assert.Contains(t, s, "undefined")
}

func TestAssignmentDoesNotCatchAbort(t *testing.T) {
	target := newStubTarget()
	ctx := newCtx(target)
	ev := path.Event

	errLhs := AssignTarget{Prefix: &ev, SubPath: mustPath(t, "err")}
	a := &Assignment{
		LHS:       AssignTarget{Prefix: &ev, SubPath: mustPath(t, "foo")},
		ErrTarget: &errLhs,
		RHS:       &Abort{},
	}
	_, err := a.Resolve(ctx)
	assert.Error(t, err)
	_, isAbort := err.(*runtime.AbortError)
	assert.True(t, isAbort, "abort must propagate through an err-binding assignment, not be caught")
}

func TestIfBranchesAndJoinsTypes(t *testing.T) {
	n := &If{
		Cond: &Literal{Val: value.Boolean(true)},
		Then: &Block{Stmts: []Expression{&Literal{Val: value.Integer(1)}}},
		Else: &Block{Stmts: []Expression{&Literal{Val: value.String("x")}}},
	}
	v, err := n.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(1), iv)

	def, _ := n.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Kind.Contains(kind.Integer))
	assert.True(t, def.Kind.Contains(kind.Bytes))
}

func TestIfConditionMustBeBoolean(t *testing.T) {
	n := &If{
		Cond: &Literal{Val: value.Integer(1)},
		Then: &Block{},
	}
	_, err := n.Resolve(newCtx(newStubTarget()))
	assert.Error(t, err)
}

func TestIfMissingElseYieldsNull(t *testing.T) {
	n := &If{
		Cond: &Literal{Val: value.Boolean(false)},
		Then: &Block{Stmts: []Expression{&Literal{Val: value.Integer(1)}}},
	}
	v, err := n.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestAbortCarriesMessage(t *testing.T) {
	a := &Abort{Message: &Literal{Val: value.String("bad input")}}
	_, err := a.Resolve(newCtx(newStubTarget()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")

	def, _ := a.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.True(t, def.Abortable)
	assert.True(t, def.Kind.IsExact(0))
}

func TestErrorCoalesceFallsBackOnError(t *testing.T) {
	e := &ErrorCoalesce{
		Primary:  &Variable{Name: "undefined"},
		Fallback: &Literal{Val: value.Integer(42)},
	}
	v, err := e.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(42), iv)
}

func TestErrorCoalesceDoesNotCatchAbort(t *testing.T) {
	e := &ErrorCoalesce{
		Primary:  &Abort{},
		Fallback: &Literal{Val: value.Integer(1)},
	}
	_, err := e.Resolve(newCtx(newStubTarget()))
	_, isAbort := err.(*runtime.AbortError)
	assert.True(t, isAbort)
}

func TestAcknowledgeFallibleClearsFallible(t *testing.T) {
	inner := &Variable{Name: "undefined"}
	a := &AcknowledgeFallible{Inner: inner}
	def, _ := a.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.False(t, def.Fallible)
}

func TestPathQueryMissingResolvesNull(t *testing.T) {
	ev := path.Event
	q := &PathQuery{Prefix: &ev, SubPath: mustPath(t, "missing")}
	v, err := q.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestPathQueryExternalPath(t *testing.T) {
	ev := path.Event
	sub := mustPath(t, "foo")
	q := &PathQuery{Prefix: &ev, SubPath: sub}
	tp, ok := q.ExternalPath()
	assert.True(t, ok)
	assert.Equal(t, path.Event, tp.Prefix)
}

func TestFunctionExpressionDelegates(t *testing.T) {
	wantDef := compiler.Infallible(kind.IntegerKind())
	state := compiler.NewTypeState(kind.AnyObject(), kind.AnyObject())
	f := &FunctionExpression{
		Identifier: "my_fn",
		Def:        wantDef,
		NextState:  state,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			return value.Integer(3), nil
		},
	}
	v, err := f.Resolve(newCtx(newStubTarget()))
	require.NoError(t, err)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(3), iv)

	gotDef, gotState := f.TypeInfo(compiler.NewTypeState(kind.AnyObject(), kind.AnyObject()))
	assert.Equal(t, wantDef, gotDef)
	assert.Same(t, state, gotState)
}
