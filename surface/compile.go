package surface

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/errdefs"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/value"
)

// compileWalker threads a TypeState through the CST walk and resolves calls
// against a function.Registry, mirroring how the teacher's checker.Check
// walks the HLB CST depth-first while consulting the builtin.Callables
// registry at each CallStmt.
type compileWalker struct {
	fns  *function.Registry
	cctx *function.CompileContext
}

// Compile lowers a parsed *Program CST into an *ast.Program, type-checking
// it against fns and cctx starting from state. It is the single entry
// point the root-level remap.Compile calls.
func Compile(cst *Program, fns *function.Registry, cctx *function.CompileContext, state *compiler.TypeState) (*ast.Program, *compiler.TypeState, error) {
	w := &compileWalker{fns: fns, cctx: cctx}
	return w.Compile(cst, state)
}

// Compile lowers a parsed *Program CST into an *ast.Program and the
// TypeState reached after evaluating every statement. It fails fast on the
// first error, matching spec §4.4's "compilation fails otherwise" for
// unhandled fallibility and the TypeError kinds listed in spec §7.
func (w *compileWalker) Compile(prog *Program, state *compiler.TypeState) (*ast.Program, *compiler.TypeState, error) {
	stmts, next, err := w.compileStmts(prog.Stmts, state)
	if err != nil {
		return nil, nil, err
	}
	return &ast.Program{Pos: prog.Pos, Body: &ast.Block{Pos: prog.Pos, Stmts: stmts}}, next, nil
}

func (w *compileWalker) compileStmts(stmts []*Stmt, state *compiler.TypeState) ([]ast.Expression, *compiler.TypeState, error) {
	out := make([]ast.Expression, 0, len(stmts))
	cur := state
	for _, s := range stmts {
		expr, next, err := w.compileStmt(s, cur)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, expr)
		cur = next
	}
	return out, cur, nil
}

func (w *compileWalker) compileStmt(s *Stmt, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	switch {
	case s.Abort != nil:
		return w.compileAbort(s.Abort, state)
	case s.If != nil:
		return w.compileIf(s.If, state)
	case s.Assignment != nil:
		return w.compileAssignment(s.Assignment, state)
	case s.Expr != nil:
		def, next, expr, err := w.compileExprChecked(s.Expr, state)
		if err != nil {
			return nil, nil, err
		}
		if def.Fallible {
			return nil, nil, errdefs.WithUnhandledFallible(s.Pos, s.Pos, "expression")
		}
		return expr, next, nil
	default:
		return nil, nil, errdefs.WithInternalErrorf(s.Pos, s.Pos, "empty statement")
	}
}

func (w *compileWalker) compileAbort(a *AbortStmt, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	var msg ast.Expression
	cur := state
	if a.Message != nil {
		var err error
		_, cur, msg, err = w.compileExprChecked(a.Message, state)
		if err != nil {
			return nil, nil, err
		}
	}
	return &ast.Abort{Pos: a.Pos, Message: msg}, cur, nil
}

func (w *compileWalker) compileIf(s *IfStmt, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	condDef, afterCond, cond, err := w.compileExprChecked(s.Cond, state)
	if err != nil {
		return nil, nil, err
	}
	if condDef.Fallible {
		return nil, nil, errdefs.WithUnhandledFallible(s.Cond.Pos, s.Cond.Pos, "condition")
	}

	thenStmts, _, err := w.compileStmts(s.Then, afterCond)
	if err != nil {
		return nil, nil, err
	}
	thenBlock := &ast.Block{Pos: s.Pos, Stmts: thenStmts}

	var elseExpr ast.Expression
	if s.Else != nil {
		switch {
		case s.Else.If != nil:
			elseExpr, _, err = w.compileIf(s.Else.If, afterCond)
			if err != nil {
				return nil, nil, err
			}
		default:
			elseStmts, _, err := w.compileStmts(s.Else.Body, afterCond)
			if err != nil {
				return nil, nil, err
			}
			elseExpr = &ast.Block{Pos: s.Else.Pos, Stmts: elseStmts}
		}
	}

	var elseBlock *ast.Block
	if elseExpr != nil {
		if b, ok := elseExpr.(*ast.Block); ok {
			elseBlock = b
		} else {
			// an `else if` tail: wrap the nested If in a single-statement
			// block so *ast.If's Else field (always a *Block) stays uniform
			elseBlock = &ast.Block{Pos: elseExpr.Position(), Stmts: []ast.Expression{elseExpr}}
		}
	}

	node := &ast.If{Pos: s.Pos, Cond: cond, Then: thenBlock, Else: elseBlock}
	_, joined := node.TypeInfo(state)
	return node, joined, nil
}

func (w *compileWalker) compileAssignment(s *AssignStmt, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	lhs, err := compileAssignTarget(s.Target)
	if err != nil {
		return nil, nil, err
	}
	var errTarget *ast.AssignTarget
	if s.ErrTarget != nil {
		errTarget, err = compileAssignTarget(s.ErrTarget)
		if err != nil {
			return nil, nil, err
		}
	}
	if lhs.Prefix != nil && w.cctx.IsReadOnlyPath != nil {
		if w.cctx.IsReadOnlyPath(path.NewTargetPath(*lhs.Prefix, lhs.SubPath)) {
			return nil, nil, errdefs.WithReadOnlyPath(s.Pos, s.Pos, path.Serialize(lhs.SubPath))
		}
	}

	rhsDef, next, rhs, err := w.compileExprChecked(s.RHS, state)
	if err != nil {
		return nil, nil, err
	}
	if rhsDef.Fallible && errTarget == nil {
		return nil, nil, errdefs.WithUnhandledFallible(s.Pos, s.Pos, "assignment")
	}

	node := &ast.Assignment{Pos: s.Pos, LHS: *lhs, ErrTarget: errTarget, RHS: rhs}
	_, joined := node.TypeInfo(next)
	return node, joined, nil
}

func compileAssignTarget(t *AssignTarget) (*ast.AssignTarget, error) {
	switch {
	case t.Path != "":
		p, err := path.ParsePath(t.Path)
		if err != nil {
			return nil, errdefs.WithInvalidPath(t.Pos, t.Pos, t.Path, err)
		}
		prefix := path.Event
		return &ast.AssignTarget{Prefix: &prefix, SubPath: p}, nil
	case t.Meta != "":
		p, err := path.ParsePath(t.Meta)
		if err != nil {
			return nil, errdefs.WithInvalidPath(t.Pos, t.Pos, t.Meta, err)
		}
		prefix := path.Metadata
		return &ast.AssignTarget{Prefix: &prefix, SubPath: p}, nil
	default:
		name := t.Var
		return &ast.AssignTarget{Variable: &name, SubPath: path.Root()}, nil
	}
}

// compileExprChecked walks an Expr (primary plus its `!`/`??` postfix) and
// returns both the resulting node's TypeDef and the compiled node — the
// caller decides whether an outstanding Fallible is an error.
func (w *compileWalker) compileExprChecked(e *Expr, state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState, ast.Expression, error) {
	prim, next, err := w.compilePrimary(e.Primary, state)
	if err != nil {
		return compiler.TypeDef{}, nil, nil, err
	}

	var node ast.Expression = prim
	switch {
	case e.Bang:
		node = &ast.AcknowledgeFallible{Pos: e.Pos, Inner: prim}
	case e.Coalesce != nil:
		_, afterFallback, fallback, err := w.compileExprChecked(e.Coalesce, next)
		if err != nil {
			return compiler.TypeDef{}, nil, nil, err
		}
		node = &ast.ErrorCoalesce{Pos: e.Pos, Primary: prim, Fallback: fallback}
		next = afterFallback
	}

	def, after := node.TypeInfo(next)
	return def, after, node, nil
}

func (w *compileWalker) compilePrimary(p *Primary, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	switch {
	case p.Paren != nil:
		_, next, expr, err := w.compileExprChecked(p.Paren, state)
		return expr, next, err
	case p.Array != nil:
		return w.compileArray(p.Array, state)
	case p.Object != nil:
		return w.compileObject(p.Object, state)
	case p.Call != nil:
		return w.compileCall(p.Call, state)
	case p.Path != nil:
		return compilePathExpr(p.Path, state)
	case p.Var != nil:
		return &ast.Variable{Pos: p.Pos, Name: *p.Var}, state, nil
	case p.Lit != nil:
		expr, err := compileLiteral(p.Lit)
		return expr, state, err
	default:
		return nil, nil, errdefs.WithInternalErrorf(p.Pos, p.Pos, "empty expression")
	}
}

func (w *compileWalker) compileArray(a *ArrayLit, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	elements := make([]ast.Expression, 0, len(a.Elements))
	cur := state
	for _, el := range a.Elements {
		_, next, expr, err := w.compileExprChecked(el, cur)
		if err != nil {
			return nil, nil, err
		}
		elements = append(elements, expr)
		cur = next
	}
	node := &ast.ArrayLiteral{Pos: a.Pos, Elements: elements}
	_, after := node.TypeInfo(cur)
	return node, after, nil
}

func (w *compileWalker) compileObject(o *ObjectLit, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	fields := make([]ast.KV, 0, len(o.Fields))
	cur := state
	for _, f := range o.Fields {
		_, next, expr, err := w.compileExprChecked(f.Value, cur)
		if err != nil {
			return nil, nil, err
		}
		name, err := unquoteString(f.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", pos(f.Pos), err)
		}
		fields = append(fields, ast.KV{Name: name, Value: expr})
		cur = next
	}
	node := &ast.ObjectLiteral{Pos: o.Pos, Fields: fields}
	_, after := node.TypeInfo(cur)
	return node, after, nil
}

func (w *compileWalker) compileCall(c *CallExpr, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	fn, ok := w.fns.Lookup(c.Name)
	if !ok {
		return nil, nil, errdefs.WithUnknownFunction(c.Pos, c.Pos, c.Name)
	}
	params := fn.Parameters()

	args := map[string]ast.Expression{}
	cur := state
	positional := 0
	for _, a := range c.Args {
		_, next, expr, err := w.compileExprChecked(a.Value, cur)
		if err != nil {
			return nil, nil, err
		}
		cur = next
		kw := a.Keyword
		if kw == "" {
			if positional >= len(params) {
				return nil, nil, errdefs.WithUnrecognizedArgument(a.Pos, a.Pos, c.Name, fmt.Sprintf("positional %d", positional))
			}
			kw = params[positional].Keyword
			positional++
		}
		args[kw] = expr
	}

	argList := function.NewArgumentList(c.Name, args)
	if err := function.Validate(fn, argList, cur, c.Pos); err != nil {
		return nil, nil, err
	}

	expr, err := fn.Compile(cur, w.cctx, argList)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", pos(c.Pos), err)
	}
	expr.Pos = c.Pos
	expr.Identifier = c.Name
	_, after := expr.TypeInfo(cur)
	return expr, after, nil
}

func compilePathExpr(p *PathExpr, state *compiler.TypeState) (ast.Expression, *compiler.TypeState, error) {
	raw, prefix := p.Path, path.Event
	if p.Meta != "" {
		raw, prefix = p.Meta, path.Metadata
	}
	sp, err := path.ParsePath(raw)
	if err != nil {
		return nil, nil, errdefs.WithInvalidPath(p.Pos, p.Pos, raw, err)
	}
	node := &ast.PathQuery{Pos: p.Pos, Prefix: &prefix, SubPath: sp}
	_, after := node.TypeInfo(state)
	return node, after, nil
}

func compileLiteral(l *Literal) (ast.Expression, error) {
	var v value.Value
	switch {
	case l.Str != nil:
		s, err := unquoteString(*l.Str)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pos(l.Pos), err)
		}
		v = value.String(s)
	case l.Regex != nil:
		pattern := strings.TrimSuffix(strings.TrimPrefix(*l.Regex, "r'"), "'")
		re, err := value.NewRegex(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pos(l.Pos), err)
		}
		v = re
	case l.Float != nil:
		v = value.Float(*l.Float)
	case l.Int != nil:
		v = value.Integer(*l.Int)
	case l.Bool != nil:
		v = value.Boolean(*l.Bool == "true")
	case l.Null:
		v = value.Null()
	default:
		return nil, errdefs.WithInternalErrorf(l.Pos, l.Pos, "empty literal")
	}
	return &ast.Literal{Pos: l.Pos, Val: v}, nil
}

func unquoteString(s string) (string, error) {
	return strconv.Unquote(s)
}

func pos(p lexer.Position) string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
