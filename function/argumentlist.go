package function

import (
	"fmt"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/value"
)

// ArgumentList maps call-site keyword to the parsed argument expression,
// produced by the surface compiler's call parser (spec §4.5).
type ArgumentList struct {
	Name string
	args map[string]ast.Expression
}

func NewArgumentList(name string, args map[string]ast.Expression) *ArgumentList {
	return &ArgumentList{Name: name, args: args}
}

// Required returns the expression bound to kw, erroring if absent.
func (a *ArgumentList) Required(kw string) (ast.Expression, error) {
	expr, ok := a.args[kw]
	if !ok {
		return nil, fmt.Errorf("%s: missing required argument %q", a.Name, kw)
	}
	return expr, nil
}

// Optional returns the expression bound to kw, or ok=false if absent —
// callers fall back to the Parameter's declared Default.
func (a *ArgumentList) Optional(kw string) (ast.Expression, bool) {
	expr, ok := a.args[kw]
	return expr, ok
}

// RequiredLiteral returns the constant Value of the argument bound to kw,
// erroring unless it resolves to a compile-time constant (an *ast.Literal).
func (a *ArgumentList) RequiredLiteral(kw string) (value.Value, error) {
	expr, err := a.Required(kw)
	if err != nil {
		return value.Value{}, err
	}
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return value.Value{}, fmt.Errorf("%s: argument %q must be a literal constant", a.Name, kw)
	}
	return lit.Val, nil
}

// RequiredRegex returns the literal Regex bound to kw.
func (a *ArgumentList) RequiredRegex(kw string) (value.Regex, error) {
	v, err := a.RequiredLiteral(kw)
	if err != nil {
		return value.Regex{}, err
	}
	re, ok := v.RegexValue()
	if !ok {
		return value.Regex{}, fmt.Errorf("%s: argument %q must be a regex literal", a.Name, kw)
	}
	return re, nil
}

// RequiredQuery returns the PathQuery bound to kw — required by
// assignment-like functions such as `del` that mutate the location they
// read from.
func (a *ArgumentList) RequiredQuery(kw string) (*ast.PathQuery, error) {
	expr, err := a.Required(kw)
	if err != nil {
		return nil, err
	}
	q, ok := expr.(*ast.PathQuery)
	if !ok {
		return nil, fmt.Errorf("%s: argument %q must be a path query", a.Name, kw)
	}
	return q, nil
}

// Keys lists the bound keyword names, used to reject unrecognized keywords
// against a function's declared Parameters.
func (a *ArgumentList) Keys() []string {
	out := make([]string, 0, len(a.args))
	for k := range a.args {
		out = append(out, k)
	}
	return out
}
