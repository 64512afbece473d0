// Package compiler implements the compile-time type-inference plumbing
// threaded through the expression tree: TypeDef, TypeState, and the
// TypeInfo an expression node returns while inferring bottom-up (spec
// §3, §4.4). It mirrors the role the teacher's checker/ package plays for
// HLB's static semantics, generalized from a fixed Kind enum to the
// kind.Kind lattice.
package compiler

import "github.com/openllb/remap/kind"

// TypeDef is the compile-time description of an expression's result: its
// Kind, plus whether resolving it may fail (Fallible), may abort the
// program (Abortable), or may mutate the target/runtime state (Impure).
type TypeDef struct {
	Kind       kind.Kind
	Fallible   bool
	Abortable  bool
	Impure     bool
}

// Infallible builds a TypeDef for a pure, total expression of the given
// Kind — literals, variable reads of a known-bound local, and similar.
func Infallible(k kind.Kind) TypeDef { return TypeDef{Kind: k} }

// Merge widens d with other, used at branch joins (if/else, `??`):
// Kind unions, and any flag set on either side propagates.
func (d TypeDef) Merge(other TypeDef) TypeDef {
	return TypeDef{
		Kind:      kind.Union(d.Kind, other.Kind),
		Fallible:  d.Fallible || other.Fallible,
		Abortable: d.Abortable || other.Abortable,
		Impure:    d.Impure || other.Impure,
	}
}

// AsFallible returns d with Fallible forced true — used by stdlib functions
// whose type-def policy (spec §4.5) determines the call is intrinsically
// fallible regardless of its arguments' type-defs.
func (d TypeDef) AsFallible() TypeDef {
	d.Fallible = true
	return d
}

// AsAbortable returns d with Abortable forced true.
func (d TypeDef) AsAbortable() TypeDef {
	d.Abortable = true
	return d
}

// AsImpure returns d with Impure forced true.
func (d TypeDef) AsImpure() TypeDef {
	d.Impure = true
	return d
}
