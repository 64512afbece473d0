package main

import (
	"sync"

	"github.com/openllb/remap/path"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
)

// memTarget is the REPL's Target implementation: two in-memory Value trees
// (event and metadata), exactly the shape spec §3 describes a host
// adapter as routing to "logically separate stores". It is the minimal
// collaborator needed to drive the REPL end-to-end; a real host (e.g. a
// log-pipeline event) would implement runtime.Target against its own
// record representation instead.
type memTarget struct {
	mu       sync.Mutex
	event    value.Value
	metadata value.Value
	readOnly map[string]bool
}

var _ runtime.Target = (*memTarget)(nil)

func newMemTarget() *memTarget {
	return &memTarget{
		event:    value.EmptyObject(),
		metadata: value.EmptyObject(),
		readOnly: map[string]bool{},
	}
}

func (t *memTarget) root(prefix path.Prefix) *value.Value {
	if prefix == path.Metadata {
		return &t.metadata
	}
	return &t.event
}

func (t *memTarget) Get(tp path.TargetPath) (value.Value, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	root := t.root(tp.Prefix)
	v, ok := value.Get(root, tp.Path.Iter())
	return v, ok, nil
}

func (t *memTarget) Insert(tp path.TargetPath, v value.Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.IsReadOnlyPath(tp) {
		return runtime.NewEvalError("%s is read-only", tp)
	}
	root := t.root(tp.Prefix)
	_, ok := value.Insert(root, tp.Path.Iter(), v)
	if !ok {
		return runtime.NewEvalError("invalid path %s", tp)
	}
	return nil
}

func (t *memTarget) Remove(tp path.TargetPath, compact bool) (value.Value, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	root := t.root(tp.Prefix)
	v, ok := value.Remove(root, tp.Path.Iter(), compact)
	return v, ok, nil
}

// IsReadOnlyPath reports whether tp was marked read-only via :readonly.
func (t *memTarget) IsReadOnlyPath(tp path.TargetPath) bool {
	return t.readOnly[tp.String()]
}

func (t *memTarget) markReadOnly(tp path.TargetPath) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readOnly[tp.String()] = true
}
