package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/value"
)

func compileAndResolve(t *testing.T, fn function.Function, args map[string]ast.Expression) value.Value {
	t.Helper()
	argList := function.NewArgumentList(fn.Identifier(), args)
	expr, err := fn.Compile(newState(), &function.CompileContext{}, argList)
	require.NoError(t, err)
	v, err := expr.Resolve(newCtx())
	require.NoError(t, err)
	return v
}

func lit(v value.Value) ast.Expression { return &ast.Literal{Val: v} }

func TestCeilRoundsFloatUpAtPrecision(t *testing.T) {
	v := compileAndResolve(t, Ceil{}, map[string]ast.Expression{
		"value":     lit(value.Float(4.345)),
		"precision": lit(value.Integer(2)),
	})
	f, ok := v.FloatValue()
	require.True(t, ok)
	assert.Equal(t, 4.35, f)
}

func TestFloorRoundsFloatDownAtPrecision(t *testing.T) {
	v := compileAndResolve(t, Floor{}, map[string]ast.Expression{
		"value":     lit(value.Float(4.345)),
		"precision": lit(value.Integer(2)),
	})
	f, ok := v.FloatValue()
	require.True(t, ok)
	assert.Equal(t, 4.34, f)
}

func TestCeilPassesIntegerInputThrough(t *testing.T) {
	v := compileAndResolve(t, Ceil{}, map[string]ast.Expression{"value": lit(value.Integer(4))})
	iv, ok := v.IntegerValue()
	require.True(t, ok, "an already-integer input is never reconverted to float")
	assert.Equal(t, int64(4), iv)
}

func TestIsNullishDash(t *testing.T) {
	v := compileAndResolve(t, IsNullish{}, map[string]ast.Expression{"value": lit(value.String("-"))})
	b, _ := v.BooleanValue()
	assert.True(t, b)
}

func TestIsNullishWhitespace(t *testing.T) {
	v := compileAndResolve(t, IsNullish{}, map[string]ast.Expression{"value": lit(value.String("   "))})
	b, _ := v.BooleanValue()
	assert.True(t, b)
}

func TestIsNullishOrdinaryStringIsFalse(t *testing.T) {
	v := compileAndResolve(t, IsNullish{}, map[string]ast.Expression{"value": lit(value.String("hi"))})
	b, _ := v.BooleanValue()
	assert.False(t, b)
}

func TestCompactDropsEmptyEntriesRecursively(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.NewObjectValue(value.NewObject()))
	obj.Set("b", value.Null())
	obj.Set("c", value.Array(value.Null()))
	obj.Set("d", value.String(""))
	obj.Set("e", value.String("-"))
	obj.Set("f", value.Boolean(true))

	v := compileAndResolve(t, Compact{}, map[string]ast.Expression{
		"value":   lit(value.NewObjectValue(obj)),
		"nullish": lit(value.Boolean(true)),
	})
	out, ok := v.ObjectValue()
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"f"}, out.Keys())
}

func TestCompactKeepsNonEmptyNestedValues(t *testing.T) {
	obj := value.NewObject()
	inner := value.NewObject()
	inner.Set("x", value.Integer(1))
	obj.Set("a", value.NewObjectValue(inner))

	v := compileAndResolve(t, Compact{}, map[string]ast.Expression{"value": lit(value.NewObjectValue(obj))})
	out, _ := v.ObjectValue()
	assert.ElementsMatch(t, []string{"a"}, out.Keys())
}

func TestObjectFromArrayPairsDropsNullKey(t *testing.T) {
	pairs := value.Array(
		value.Array(value.String("one"), value.Integer(1)),
		value.Array(value.Null(), value.Integer(2)),
		value.Array(value.String("two"), value.Integer(3)),
	)
	v := compileAndResolve(t, ObjectFromArray{}, map[string]ast.Expression{"values": lit(pairs)})
	out, ok := v.ObjectValue()
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"one", "two"}, out.Keys())
}

func TestObjectFromArrayParallelKeysValues(t *testing.T) {
	values := value.Array(value.Integer(1), value.Integer(2))
	keys := value.Array(value.String("a"), value.String("b"))
	v := compileAndResolve(t, ObjectFromArray{}, map[string]ast.Expression{
		"values": lit(values),
		"keys":   lit(keys),
	})
	out, _ := v.ObjectValue()
	got, _ := out.Get("b")
	iv, _ := got.IntegerValue()
	assert.Equal(t, int64(2), iv)
}

func TestZipTransposesArrayOfArraysToShortestRow(t *testing.T) {
	rows := value.Array(
		value.Array(value.Integer(1), value.Integer(2), value.Integer(3)),
		value.Array(value.Integer(4), value.Integer(5)),
	)
	v := compileAndResolve(t, Zip{}, map[string]ast.Expression{"array_0": lit(rows)})
	out, ok := v.ArrayValue()
	require.True(t, ok)
	assert.Len(t, out, 2, "the transposed result is bounded by the shortest row")
}

func TestZipPairwiseTwoArrays(t *testing.T) {
	a := value.Array(value.Integer(1), value.Integer(2), value.Integer(3))
	b := value.Array(value.Integer(4), value.Integer(5))
	v := compileAndResolve(t, Zip{}, map[string]ast.Expression{"array_0": lit(a), "array_1": lit(b)})
	out, _ := v.ArrayValue()
	assert.Len(t, out, 2, "pairwise zip is bounded by the shorter array")
}

func TestEncodeBase64Standard(t *testing.T) {
	v := compileAndResolve(t, EncodeBase64{}, map[string]ast.Expression{"value": lit(value.String("hello"))})
	s, _ := v.StringValue()
	assert.Equal(t, "aGVsbG8=", s)
}

func TestEncodeBase64WithoutPadding(t *testing.T) {
	v := compileAndResolve(t, EncodeBase64{}, map[string]ast.Expression{
		"value":   lit(value.String("hi")),
		"padding": lit(value.Boolean(false)),
	})
	s, _ := v.StringValue()
	assert.NotContains(t, s, "=")
}

func TestDecodeBase64AcceptsMissingPadding(t *testing.T) {
	v := compileAndResolve(t, DecodeBase64{}, map[string]ast.Expression{
		"value": lit(value.String("c29tZSs9c3RyaW5nL3ZhbHVlXw")),
	})
	s, _ := v.StringValue()
	assert.Equal(t, "some+=string/value_", s)
}

func TestDecodeBase64InvalidInputErrors(t *testing.T) {
	argList := function.NewArgumentList("decode_base64", map[string]ast.Expression{
		"value": lit(value.String("not valid base64!!")),
	})
	expr, err := DecodeBase64{}.Compile(newState(), &function.CompileContext{}, argList)
	require.NoError(t, err)
	_, err = expr.Resolve(newCtx())
	assert.Error(t, err)
}

func regexLit(t *testing.T, pattern string) ast.Expression {
	t.Helper()
	re, err := value.NewRegex(pattern)
	require.NoError(t, err)
	return &ast.Literal{Val: re}
}

func TestParseRegexNamedCaptures(t *testing.T) {
	v := compileAndResolve(t, ParseRegex{}, map[string]ast.Expression{
		"value":   lit(value.String("8.7.6.5 - zorp")),
		"pattern": regexLit(t, `^(?P<host>[\w.]+) - (?P<user>[\w]+)`),
	})
	obj, ok := v.ObjectValue()
	require.True(t, ok)
	host, _ := obj.Get("host")
	s, _ := host.StringValue()
	assert.Equal(t, "8.7.6.5", s)
}

func TestParseRegexNoMatchErrors(t *testing.T) {
	argList := function.NewArgumentList("parse_regex", map[string]ast.Expression{
		"value":   lit(value.String("nomatch")),
		"pattern": regexLit(t, `^\d+$`),
	})
	expr, err := ParseRegex{}.Compile(newState(), &function.CompileContext{}, argList)
	require.NoError(t, err)
	_, err = expr.Resolve(newCtx())
	assert.Error(t, err)
}

func TestParseRegexAllReturnsEveryMatch(t *testing.T) {
	v := compileAndResolve(t, ParseRegexAll{}, map[string]ast.Expression{
		"value":   lit(value.String("a1 a2")),
		"pattern": regexLit(t, `a(?P<n>\d)`),
	})
	arr, ok := v.ArrayValue()
	require.True(t, ok)
	assert.Len(t, arr, 2)
}

func TestParseRegexAllNoMatchReturnsEmptyArray(t *testing.T) {
	v := compileAndResolve(t, ParseRegexAll{}, map[string]ast.Expression{
		"value":   lit(value.String("nothing here")),
		"pattern": regexLit(t, `\d+`),
	})
	arr, ok := v.ArrayValue()
	require.True(t, ok)
	assert.Len(t, arr, 0, "no matches is not an error for parse_regex_all")
}

func TestParseTokensSplitsAndNullsDashesAndEmpty(t *testing.T) {
	v := compileAndResolve(t, ParseTokens{}, map[string]ast.Expression{
		"value": lit(value.String("foo bar - baz")),
	})
	arr, ok := v.ArrayValue()
	require.True(t, ok)
	require.Len(t, arr, 4)
	assert.True(t, arr[2].IsNull())
	s, _ := arr[0].StringValue()
	assert.Equal(t, "foo", s)
}

func TestParseTokensGroupsQuotesAndBrackets(t *testing.T) {
	line := `217.250.207.207 - - [07/Sep/2020:16:38:00 -0400] "DELETE /deliverables/next-generation/user-centric HTTP/1.1" 205 11881`
	v := compileAndResolve(t, ParseTokens{}, map[string]ast.Expression{
		"value": lit(value.String(line)),
	})
	arr, ok := v.ArrayValue()
	require.True(t, ok)
	require.Len(t, arr, 7)

	assert.True(t, arr[1].IsNull())
	assert.True(t, arr[2].IsNull())

	want := []string{
		"217.250.207.207",
		"",
		"",
		"07/Sep/2020:16:38:00 -0400",
		"DELETE /deliverables/next-generation/user-centric HTTP/1.1",
		"205",
		"11881",
	}
	for i, w := range want {
		if w == "" {
			continue
		}
		s, _ := arr[i].StringValue()
		assert.Equal(t, w, s)
	}
}

func TestParseTokensUnescapesQuotedGroup(t *testing.T) {
	line := `A sentence "with \"a\" sentence inside" and [some brackets]`
	v := compileAndResolve(t, ParseTokens{}, map[string]ast.Expression{
		"value": lit(value.String(line)),
	})
	arr, ok := v.ArrayValue()
	require.True(t, ok)
	require.Len(t, arr, 5)
	s, _ := arr[2].StringValue()
	assert.Equal(t, `with "a" sentence inside`, s)
	s, _ = arr[4].StringValue()
	assert.Equal(t, "some brackets", s)
}
