package value

import "github.com/openllb/remap/path"

// Get walks path segments from root, returning the addressed value. It
// returns ok=false on any mismatch: a field segment into a non-object, an
// index into a non-array, an out-of-range index, an Invalid segment, or a
// coalesce group where no candidate name exists.
func Get(root *Value, it path.Cursor) (Value, bool) {
	seg, ok := it.Next()
	if !ok {
		return *root, true
	}
	switch seg.Kind {
	case path.BField:
		obj, ok := root.ObjectValue()
		if !ok {
			return Value{}, false
		}
		child, exists := obj.Get(seg.Name)
		if !exists {
			return Value{}, false
		}
		return Get(&child, it)
	case path.BIndex:
		arr, ok := root.ArrayValue()
		if !ok {
			return Value{}, false
		}
		pos, okp := path.ResolveIndex(seg.Idx, len(arr))
		if !okp {
			return Value{}, false
		}
		child := arr[pos]
		return Get(&child, it)
	case path.BCoalesceField, path.BCoalesceEnd:
		return getCoalesce(root, seg, it)
	default: // Invalid
		return Value{}, false
	}
}

func getCoalesce(root *Value, first path.Borrowed, it path.Cursor) (Value, bool) {
	names := []string{first.Name}
	for first.Kind != path.BCoalesceEnd {
		b, ok := it.Next()
		if !ok {
			return Value{}, false
		}
		names = append(names, b.Name)
		first = b
	}
	obj, ok := root.ObjectValue()
	if !ok {
		return Value{}, false
	}
	for _, n := range names {
		if child, exists := obj.Get(n); exists {
			return Get(&child, it)
		}
	}
	return Value{}, false
}

// Insert walks path segments from root, materializing missing Object/Array
// containers and gap-filling array slots with Null as needed (spec §4.2),
// and stores newVal at the addressed slot. It returns the slot's previous
// contents (Null if the slot was freshly created) and ok=true, or
// ok=false only when the path contains an Invalid segment.
func Insert(root *Value, it path.Cursor, newVal Value) (Value, bool) {
	seg, ok := it.Next()
	if !ok {
		prev := *root
		*root = newVal
		return prev, true
	}
	switch seg.Kind {
	case path.BField:
		return insertField(root, seg.Name, it, newVal)
	case path.BIndex:
		return insertIndex(root, seg.Idx, it, newVal)
	case path.BCoalesceField, path.BCoalesceEnd:
		return insertCoalesce(root, seg, it, newVal)
	default: // Invalid
		return Value{}, false
	}
}

func insertField(root *Value, name string, it path.Cursor, newVal Value) (Value, bool) {
	if root.tag != TagObject {
		*root = EmptyObject()
	}
	child, exists := root.obj.Get(name)
	if !exists {
		child = Null()
	}
	prev, ok := Insert(&child, it, newVal)
	if !ok {
		return Value{}, false
	}
	root.obj.Set(name, child)
	return prev, true
}

func insertIndex(root *Value, idx int, it path.Cursor, newVal Value) (Value, bool) {
	if root.tag != TagArray {
		*root = Value{tag: TagArray}
	}
	if idx >= 0 {
		for len(root.arr) <= idx {
			root.arr = append(root.arr, Null())
		}
	} else {
		k := -idx
		if len(root.arr) < k {
			pad := k - len(root.arr)
			padded := make([]Value, 0, pad+len(root.arr))
			for i := 0; i < pad; i++ {
				padded = append(padded, Null())
			}
			padded = append(padded, root.arr...)
			root.arr = padded
			idx = 0
		} else {
			idx, _ = path.ResolveIndex(idx, len(root.arr))
		}
	}
	child := root.arr[idx]
	prev, ok := Insert(&child, it, newVal)
	if !ok {
		return Value{}, false
	}
	root.arr[idx] = child
	return prev, true
}

// insertCoalesce picks the candidate field to store into: the last name
// when the object is absent/empty or none of the candidates already exist,
// the first existing candidate otherwise — matching Get's first-present
// read rule while giving insert a deterministic target when nothing
// matches yet (spec §4.2, verified against the worked example in §8).
func insertCoalesce(root *Value, first path.Borrowed, it path.Cursor, newVal Value) (Value, bool) {
	names := []string{first.Name}
	for first.Kind != path.BCoalesceEnd {
		b, ok := it.Next()
		if !ok {
			return Value{}, false
		}
		names = append(names, b.Name)
		first = b
	}
	if root.tag != TagObject {
		*root = EmptyObject()
	}
	chosen := names[len(names)-1]
	if root.obj.Len() > 0 {
		for _, n := range names {
			if _, exists := root.obj.Get(n); exists {
				chosen = n
				break
			}
		}
	}
	child, exists := root.obj.Get(chosen)
	if !exists {
		child = Null()
	}
	prev, ok := Insert(&child, it, newVal)
	if !ok {
		return Value{}, false
	}
	root.obj.Set(chosen, child)
	return prev, true
}

// peekCursor adds one-token lookahead over a path.Cursor so Remove can
// tell whether the segment it just read is the final one (the deletion
// target) or an intermediate one (requiring descent before pruning).
type peekCursor struct {
	inner path.Cursor
	buf   *path.Borrowed
}

func newPeek(it path.Cursor) *peekCursor { return &peekCursor{inner: it} }

func (p *peekCursor) Next() (path.Borrowed, bool) {
	if p.buf != nil {
		b := *p.buf
		p.buf = nil
		return b, true
	}
	return p.inner.Next()
}

func (p *peekCursor) HasNext() bool {
	if p.buf != nil {
		return true
	}
	b, ok := p.inner.Next()
	if !ok {
		return false
	}
	p.buf = &b
	return true
}

// Remove deletes the value addressed by path, shrinking the owning array
// or deleting the owning object key. It returns the removed value and
// ok=true, or ok=false if nothing existed at that path (or the path
// contains an Invalid segment). When compact is true, every ancestor
// container left empty by the removal is itself removed from its parent,
// cascading to the root.
func Remove(root *Value, it path.Cursor, compact bool) (Value, bool) {
	return removeRec(root, newPeek(it), compact)
}

func removeRec(root *Value, pit *peekCursor, compact bool) (Value, bool) {
	seg, ok := pit.Next()
	if !ok {
		prev := *root
		*root = Null()
		return prev, true
	}
	switch seg.Kind {
	case path.BField:
		return removeField(root, seg.Name, pit, compact)
	case path.BIndex:
		return removeIndex(root, seg.Idx, pit, compact)
	case path.BCoalesceField, path.BCoalesceEnd:
		return removeCoalesce(root, seg, pit, compact)
	default: // Invalid
		return Value{}, false
	}
}

func removeField(root *Value, name string, pit *peekCursor, compact bool) (Value, bool) {
	if root.tag != TagObject {
		return Value{}, false
	}
	if !pit.HasNext() {
		return root.obj.Delete(name)
	}
	child, exists := root.obj.Get(name)
	if !exists {
		return Value{}, false
	}
	prev, ok := removeRec(&child, pit, compact)
	if !ok {
		return Value{}, false
	}
	root.obj.Set(name, child)
	if compact && child.IsEmpty() {
		root.obj.Delete(name)
	}
	return prev, true
}

func removeIndex(root *Value, idx int, pit *peekCursor, compact bool) (Value, bool) {
	if root.tag != TagArray {
		return Value{}, false
	}
	pos, okp := path.ResolveIndex(idx, len(root.arr))
	if !okp {
		return Value{}, false
	}
	if !pit.HasNext() {
		v := root.arr[pos]
		root.arr = append(root.arr[:pos], root.arr[pos+1:]...)
		return v, true
	}
	child := root.arr[pos]
	prev, ok := removeRec(&child, pit, compact)
	if !ok {
		return Value{}, false
	}
	if compact && child.IsEmpty() {
		root.arr = append(root.arr[:pos], root.arr[pos+1:]...)
	} else {
		root.arr[pos] = child
	}
	return prev, true
}

func removeCoalesce(root *Value, first path.Borrowed, pit *peekCursor, compact bool) (Value, bool) {
	names := []string{first.Name}
	for first.Kind != path.BCoalesceEnd {
		b, ok := pit.Next()
		if !ok {
			return Value{}, false
		}
		names = append(names, b.Name)
		first = b
	}
	if root.tag != TagObject {
		return Value{}, false
	}
	chosen := ""
	found := false
	for _, n := range names {
		if _, exists := root.obj.Get(n); exists {
			chosen = n
			found = true
			break
		}
	}
	if !found {
		return Value{}, false
	}
	if !pit.HasNext() {
		return root.obj.Delete(chosen)
	}
	child, _ := root.obj.Get(chosen)
	prev, ok := removeRec(&child, pit, compact)
	if !ok {
		return Value{}, false
	}
	root.obj.Set(chosen, child)
	if compact && child.IsEmpty() {
		root.obj.Delete(chosen)
	}
	return prev, true
}

// AtPath returns a new value wrapping self in the minimum nested structure
// such that Get(result, path) == self, by reusing Insert's gap-filling
// container construction against a fresh Null root.
func AtPath(p path.Path, self Value) Value {
	v := Null()
	Insert(&v, p.Iter(), self)
	return v
}
