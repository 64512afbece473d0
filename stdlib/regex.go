package stdlib

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

func matchToObject(re value.Regex, match []string, numericGroups bool) value.Value {
	obj := value.NewObject()
	names := re.Compiled.SubexpNames()
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		if match[i] == "" {
			obj.Set(name, value.Null())
		} else {
			obj.Set(name, value.String(match[i]))
		}
	}
	if numericGroups {
		for i, m := range match {
			key := fmt.Sprintf("%d", i)
			if m == "" {
				obj.Set(key, value.Null())
			} else {
				obj.Set(key, value.String(m))
			}
		}
	}
	return value.NewObjectValue(obj)
}

func regexParams(withNumericGroups bool) []function.Parameter {
	params := []function.Parameter{
		{Keyword: "value", KindMask: kind.BytesKind(), Required: true},
		{Keyword: "pattern", KindMask: kind.RegexKind(), Required: true},
	}
	if withNumericGroups {
		params = append(params, function.Parameter{Keyword: "numeric_groups", KindMask: kind.BooleanKind()})
	}
	return params
}

// ParseRegex implements `parse_regex(value, pattern: Regex,
// numeric_groups=false)` (spec §4.5, §8).
type ParseRegex struct{}

func (ParseRegex) Identifier() string               { return "parse_regex" }
func (ParseRegex) Parameters() []function.Parameter { return regexParams(true) }
func (ParseRegex) Examples() []function.Example {
	return []function.Example{{
		Title:  "named captures",
		Source: `parse_regex("8.7.6.5 - zorp", r'^(?P<host>[\w.]+) - (?P<user>[\w]+)')`,
		Result: `{host: "8.7.6.5", user: "zorp"}`,
	}}
}

func (ParseRegex) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	re, err := args.RequiredRegex("pattern")
	if err != nil {
		return nil, err
	}
	numericExpr, _ := args.Optional("numeric_groups")

	_, next := valueExpr.TypeInfo(state)
	if numericExpr != nil {
		_, next = numericExpr.TypeInfo(next)
	}

	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: kind.AnyObject(), Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			s, ok := v.StringValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("expected string, got %s", v.Tag())
			}
			numeric := false
			if numericExpr != nil {
				nv, err := numericExpr.Resolve(ctx)
				if err != nil {
					return value.Value{}, err
				}
				numeric, _ = nv.BooleanValue()
			}
			match := re.Compiled.FindStringSubmatch(s)
			if match == nil {
				return value.Value{}, runtime.NewEvalError("pattern %q did not match", re.Source)
			}
			return matchToObject(re, match, numeric), nil
		},
	}, nil
}

// ParseRegexAll implements `parse_regex_all(value, pattern: Regex,
// numeric_groups=false)`, returning an array of match objects, possibly
// empty (spec §4.5).
type ParseRegexAll struct{}

func (ParseRegexAll) Identifier() string               { return "parse_regex_all" }
func (ParseRegexAll) Parameters() []function.Parameter { return regexParams(true) }
func (ParseRegexAll) Examples() []function.Example {
	return []function.Example{{Title: "all matches", Source: `parse_regex_all("a1 a2", r'a(?P<n>\d)')`, Result: `[{n: "1"}, {n: "2"}]`}}
}

func (ParseRegexAll) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	re, err := args.RequiredRegex("pattern")
	if err != nil {
		return nil, err
	}
	numericExpr, _ := args.Optional("numeric_groups")

	_, next := valueExpr.TypeInfo(state)
	if numericExpr != nil {
		_, next = numericExpr.TypeInfo(next)
	}

	return &ast.FunctionExpression{
		Def:       compiler.Infallible(kind.AnyArray()),
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			s, ok := v.StringValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("expected string, got %s", v.Tag())
			}
			numeric := false
			if numericExpr != nil {
				nv, err := numericExpr.Resolve(ctx)
				if err != nil {
					return value.Value{}, err
				}
				numeric, _ = nv.BooleanValue()
			}
			matches := re.Compiled.FindAllStringSubmatch(s, -1)
			items := make([]value.Value, 0, len(matches))
			for _, m := range matches {
				items = append(items, matchToObject(re, m, numeric))
			}
			return value.Array(items...), nil
		},
	}, nil
}

// ParseTokens implements `parse_tokens(value)`: tokenizes into an array of
// bytes; an empty token or a lone `-` becomes Null (spec §4.5).
type ParseTokens struct{}

func (ParseTokens) Identifier() string { return "parse_tokens" }
func (ParseTokens) Parameters() []function.Parameter {
	return []function.Parameter{{Keyword: "value", KindMask: kind.BytesKind(), Required: true}}
}
func (ParseTokens) Examples() []function.Example {
	return []function.Example{
		{Title: "tokenize", Source: `parse_tokens("foo bar - baz")`, Result: `["foo", "bar", null, "baz"]`},
		{
			Title:  "quoted and bracketed groups",
			Source: `parse_tokens("217.250.207.207 - - [07/Sep/2020:16:38:00 -0400] \"DELETE /deliverables HTTP/1.1\" 205 11881")`,
			Result: `["217.250.207.207", null, null, "07/Sep/2020:16:38:00 -0400", "DELETE /deliverables HTTP/1.1", "205", "11881"]`,
		},
	}
}

// tokenizeLogLine splits s on whitespace, except that a `"..."` or
// `[...]` run is kept as a single token (its delimiters stripped, and a
// backslash inside a quoted run escapes the following byte), matching a
// common log line's bracketed timestamp and quoted request fields.
func tokenizeLogLine(s string) []string {
	var tokens []string
	i, n := 0, len(s)
	for i < n {
		for i < n && unicode.IsSpace(rune(s[i])) {
			i++
		}
		if i >= n {
			break
		}
		switch s[i] {
		case '"':
			i++
			var b strings.Builder
			for i < n && s[i] != '"' {
				if s[i] == '\\' && i+1 < n {
					i++
				}
				b.WriteByte(s[i])
				i++
			}
			if i < n {
				i++ // consume closing quote
			}
			tokens = append(tokens, b.String())
		case '[':
			i++
			start := i
			for i < n && s[i] != ']' {
				i++
			}
			tokens = append(tokens, s[start:i])
			if i < n {
				i++ // consume closing bracket
			}
		default:
			start := i
			for i < n && !unicode.IsSpace(rune(s[i])) {
				i++
			}
			tokens = append(tokens, s[start:i])
		}
	}
	return tokens
}

func (ParseTokens) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	_, next := valueExpr.TypeInfo(state)
	return &ast.FunctionExpression{
		Def:       compiler.Infallible(kind.AnyArray()),
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			s, ok := v.StringValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("expected string, got %s", v.Tag())
			}
			fields := tokenizeLogLine(s)
			items := make([]value.Value, 0, len(fields))
			for _, f := range fields {
				if f == "" || f == "-" {
					items = append(items, value.Null())
				} else {
					items = append(items, value.String(f))
				}
			}
			return value.Array(items...), nil
		},
	}, nil
}
