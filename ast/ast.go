// Package ast implements the expression tree (spec §4.4): the node kinds a
// compiled program is built from, each able to both resolve (at runtime,
// against a *runtime.Context) and infer its TypeDef (at compile time,
// threading a *compiler.TypeState). Node dispatch follows the teacher's
// tagged-sum style (ast.Expr's mutually-exclusive pointer fields in
// ast.go) generalized from a fixed grammar to remap's expression kinds,
// rather than a deep type-per-node interface hierarchy.
package ast

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// Node is implemented by every tree node.
type Node interface {
	Position() lexer.Position
}

// Expression is the full contract a tree node satisfies: it resolves to a
// Value at runtime and infers a TypeDef at compile time. *Program (the root
// of a compiled tree) satisfies runtime.Resolvable structurally through its
// own Resolve method — this package imports runtime for *runtime.Context,
// so runtime must not import ast back (see runtime.Resolvable's doc).
type Expression interface {
	Node
	Resolve(ctx *runtime.Context) (value.Value, error)
	TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState)
}

// Program is the root of a compiled tree: a Block plus the position of the
// first token, returned by the surface compiler.
type Program struct {
	Pos  lexer.Position
	Body *Block
}

func (p *Program) Position() lexer.Position { return p.Pos }

func (p *Program) Resolve(ctx *runtime.Context) (value.Value, error) {
	return p.Body.Resolve(ctx)
}

func (p *Program) TypeInfo(state *compiler.TypeState) (compiler.TypeDef, *compiler.TypeState) {
	return p.Body.TypeInfo(state)
}
