package compiler

import "github.com/openllb/remap/kind"

// TypeState is the per-program, linearly-threaded type environment: the
// static Kind of the event (`external.target`) and metadata
// (`external.metadata`) roots, plus a map of local variable names to their
// current Kind (spec §3). It is a plain value object, cloned per branch and
// merged at join points — never a shared mutable graph (spec §9).
type TypeState struct {
	Target   kind.Kind
	Metadata kind.Kind
	locals   map[string]kind.Kind
}

// NewTypeState seeds a TypeState from the ExternalEnv Kinds a host declares
// at compile time (spec §6).
func NewTypeState(target, metadata kind.Kind) *TypeState {
	return &TypeState{Target: target, Metadata: metadata, locals: map[string]kind.Kind{}}
}

// Clone returns an independent copy, safe to mutate on one branch of an
// If/Predicate without affecting the other.
func (s *TypeState) Clone() *TypeState {
	locals := make(map[string]kind.Kind, len(s.locals))
	for k, v := range s.locals {
		locals[k] = v
	}
	return &TypeState{Target: s.Target, Metadata: s.Metadata, locals: locals}
}

// Merge widens s with other at a branch join: every Kind unions, and any
// local bound on one side but not the other is retained with its Kind
// unioned against Null (the variable may or may not have been assigned).
func (s *TypeState) Merge(other *TypeState) *TypeState {
	out := s.Clone()
	out.Target = kind.Union(out.Target, other.Target)
	out.Metadata = kind.Union(out.Metadata, other.Metadata)
	for name, k := range other.locals {
		if cur, ok := out.locals[name]; ok {
			out.locals[name] = kind.Union(cur, k)
		} else {
			out.locals[name] = k.OrNull()
		}
	}
	for name, k := range out.locals {
		if _, ok := other.locals[name]; !ok {
			out.locals[name] = k.OrNull()
		}
	}
	return out
}

// Local looks up a bound local variable's Kind.
func (s *TypeState) Local(name string) (kind.Kind, bool) {
	k, ok := s.locals[name]
	return k, ok
}

// BindLocal records (or overwrites) a local variable's Kind.
func (s *TypeState) BindLocal(name string, k kind.Kind) {
	s.locals[name] = k
}

// LocalNames returns the bound local variable names, for diagnostics such
// as "did you mean" suggestions on an unbound variable reference.
func (s *TypeState) LocalNames() []string {
	names := make([]string, 0, len(s.locals))
	for name := range s.locals {
		names = append(names, name)
	}
	return names
}
