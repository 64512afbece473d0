// Package surface provides the minimal external-collaborator grammar spec.md
// §1 explicitly places out of scope for the core: a participle-based parser
// covering the representative subset needed to exercise every core node kind
// end-to-end — assignments, path queries, variables, literals, function
// calls, if/else, blocks, abort, and the `??`/`!` fallibility forms.
package surface

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes remap source. It is deliberately a flat rule set
// (participle's "Simple" lexer) rather than the teacher's stateful,
// mode-switching lexer: the surface grammar has no string interpolation or
// heredocs to justify mode switches.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Coalesce", Pattern: `\?\?`},
	{Name: "Float", Pattern: `-?[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Regex", Pattern: `r'(\\.|[^'\\])*'`},
	{Name: "Keyword", Pattern: `\b(if|else|abort|true|false|null)\b`},
	{Name: "MetaPath", Pattern: `%[A-Za-z0-9_@]*(\.[A-Za-z0-9_@]+|\[-?[0-9]+\]|\."(\\.|[^"\\])*")*`},
	{Name: "EventPath", Pattern: `\.[A-Za-z0-9_@]*(\.[A-Za-z0-9_@]+|\[-?[0-9]+\]|\."(\\.|[^"\\])*")*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{}\[\]().,=!:]`},
})

// Program is the root of the parsed syntax tree: a flat sequence of
// statements, each terminated by a newline (comments are elided by the
// lexer rules above via participle.Elide; blank lines are absorbed by the
// grammar's Newline* runs, including any before the first statement).
type Program struct {
	Pos   lexer.Position
	Stmts []*Stmt `parser:"Newline* @@*"`
}

// Stmt is one top-level or block-level statement.
type Stmt struct {
	Pos        lexer.Position
	Abort      *AbortStmt  `parser:"(  @@"`
	If         *IfStmt     `parser:" | @@"`
	Assignment *AssignStmt `parser:" | @@"`
	Expr       *Expr       `parser:" | @@ ) Newline*"`
}

// AbortStmt is the `abort` expression, with an optional message expression.
type AbortStmt struct {
	Pos     lexer.Position
	Keyword string `parser:"@\"abort\""`
	Message *Expr  `parser:"@@?"`
}

// IfStmt is `if <cond> { ... }` with an optional `else { ... }` or
// `else if ...` chained tail.
type IfStmt struct {
	Pos  lexer.Position
	Cond *Expr   `parser:"\"if\" @@"`
	Then []*Stmt `parser:"\"{\" Newline* @@* \"}\""`
	Else *Else   `parser:"(\"else\" @@)?"`
}

// Else is either a further IfStmt (an `else if`) or a plain block.
type Else struct {
	Pos  lexer.Position
	If   *IfStmt `parser:"  @@"`
	Body []*Stmt `parser:"| \"{\" Newline* @@* \"}\""`
}

// AssignTarget is a path query or a bare variable name on the left of `=`.
type AssignTarget struct {
	Pos  lexer.Position
	Path string `parser:"(  @EventPath"`
	Meta string `parser:" | @MetaPath"`
	Var  string `parser:" | @Ident )"`
}

// AssignStmt is `target = rhs` or the fallible-bind form
// `target, err_target = rhs`.
type AssignStmt struct {
	Pos       lexer.Position
	Target    *AssignTarget `parser:"@@"`
	ErrTarget *AssignTarget `parser:"(\",\" @@)?"`
	RHS       *Expr         `parser:"\"=\" @@ Newline*"`
}

// Expr is a primary expression with the two postfix fallibility forms:
// `!` (AcknowledgeFallible) and `?? fallback` (ErrorCoalesce).
type Expr struct {
	Pos      lexer.Position
	Primary  *Primary `parser:"@@"`
	Bang     bool     `parser:"( @\"!\""`
	Coalesce *Expr    `parser:"| \"??\" @@ )?"`
}

// Primary is one non-postfixed operand.
type Primary struct {
	Pos    lexer.Position
	Paren  *Expr       `parser:"(  \"(\" @@ \")\""`
	Array  *ArrayLit   `parser:" | @@"`
	Object *ObjectLit  `parser:" | @@"`
	Call   *CallExpr   `parser:" | @@"`
	Path   *PathExpr   `parser:" | @@"`
	Var    *string     `parser:" | @Ident"`
	Lit    *Literal    `parser:" | @@ )"`
}

// PathExpr is a path query rooted at the event (`.foo.bar`) or metadata
// (`%foo.bar`) store.
type PathExpr struct {
	Pos  lexer.Position
	Path string `parser:"(  @EventPath"`
	Meta string `parser:" | @MetaPath )"`
}

// CallExpr is `ident(arg, kw: arg, ...)`.
type CallExpr struct {
	Pos    lexer.Position
	Name   string  `parser:"@Ident \"(\""`
	Args   []*Arg  `parser:"( @@ (\",\" @@)* )? \")\""`
}

// Arg is one call argument, optionally keyword-tagged (`kw: expr`).
type Arg struct {
	Pos     lexer.Position
	Keyword string `parser:"(@Ident \":\")?"`
	Value   *Expr  `parser:"@@"`
}

// ArrayLit is `[ expr, expr, ... ]`.
type ArrayLit struct {
	Pos      lexer.Position
	Elements []*Expr `parser:"\"[\" ( @@ (\",\" @@)* )? \"]\""`
}

// ObjectLit is `{ "key": expr, ... }`.
type ObjectLit struct {
	Pos    lexer.Position
	Fields []*ObjectField `parser:"\"{\" Newline* ( @@ (\",\" Newline* @@)* Newline* )? \"}\""`
}

// ObjectField is one `"key": expr` entry.
type ObjectField struct {
	Pos   lexer.Position
	Key   string `parser:"@String \":\""`
	Value *Expr  `parser:"@@"`
}

// Literal is a scalar literal token.
type Literal struct {
	Pos   lexer.Position
	Str   *string  `parser:"(  @String"`
	Regex *string  `parser:" | @Regex"`
	Float *float64 `parser:" | @Float"`
	Int   *int64   `parser:" | @Int"`
	Bool  *string  `parser:" | @(\"true\" | \"false\")"`
	Null  bool     `parser:" | @\"null\" )"`
}

// Parser parses remap source into a *Program.
var Parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)
