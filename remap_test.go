package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/stdlib"
	"github.com/openllb/remap/value"
)

type stubTarget struct {
	event value.Value
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

func (t *stubTarget) IsReadOnlyPath(tp path.TargetPath) bool { return false }

func run(t *testing.T, src string) (value.Value, *runtime.Terminate) {
	t.Helper()
	result, err := Compile(src, stdlib.NewRegistry())
	require.NoError(t, err, "compile: %s", src)

	target := &stubTarget{event: value.EmptyObject()}
	rt := runtime.New()
	return rt.Resolve(target, result.Program, nil)
}

func TestCompileAndResolveAssignment(t *testing.T) {
	v, term := run(t, ".foo = 1\n")
	require.Nil(t, term)
	iv, ok := v.IntegerValue()
	assert.True(t, ok)
	assert.Equal(t, int64(1), iv)
}

func TestCompileAndResolveIfElse(t *testing.T) {
	v, term := run(t, `
if true {
	.x = 1
} else {
	.x = 2
}
`)
	require.Nil(t, term)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(1), iv)
}

func TestCompileAndResolveAbort(t *testing.T) {
	_, term := run(t, `abort "nope"`)
	require.NotNil(t, term)
	assert.True(t, term.Abort)
	assert.Contains(t, term.Error(), "nope")
}

func TestCompileRejectsUnhandledFallible(t *testing.T) {
	_, err := Compile(`.x = parse_regex("a", r'\d')`, stdlib.NewRegistry())
	assert.Error(t, err)
}

func TestCompileAndResolveErrTargetBinding(t *testing.T) {
	v, term := run(t, `.x, .err = parse_regex("nomatch", r'^\d+')`+"\n")
	require.Nil(t, term, "a caught error must not terminate the program")
	assert.True(t, v.IsNull(), "the primary binding resolves to null when the call errors")
}

func TestCompileStripsBOM(t *testing.T) {
	_, term := run(t, "﻿.foo = 1\n")
	require.Nil(t, term)
}

func TestCompileAndResolveFunctionCall(t *testing.T) {
	v, term := run(t, `.x = ceil(1.2)!`)
	require.Nil(t, term)
	fv, ok := v.FloatValue()
	assert.True(t, ok)
	assert.Equal(t, float64(2), fv)
}
