package runtime

import "github.com/openllb/remap/value"

// RuntimeState holds the local-variable bindings for the program currently
// executing. Unlike TypeState (compile-time, cloned per branch),
// RuntimeState is a single mutable store shared by the whole resolve call
// (spec §3).
type RuntimeState struct {
	locals map[string]value.Value
}

func NewRuntimeState() *RuntimeState {
	return &RuntimeState{locals: map[string]value.Value{}}
}

func (s *RuntimeState) Get(name string) (value.Value, bool) {
	v, ok := s.locals[name]
	return v, ok
}

func (s *RuntimeState) Set(name string, v value.Value) {
	s.locals[name] = v
}

// Reset clears every local binding, used between independent resolves of
// the same program against a fresh RuntimeState.
func (s *RuntimeState) Reset() {
	s.locals = map[string]value.Value{}
}
