package path

// Path is an owned, heap-backed sequence of segments rooted at an implicit
// value. It is immutable after construction and cheaply cloneable (a slice
// copy).
type Path struct {
	segments []Segment
}

// New builds an owned Path from a sequence of already-constructed segments.
func New(segments ...Segment) Path {
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return Path{segments: cp}
}

// Root is the empty path, denoting the value itself.
func Root() Path { return Path{} }

// Segments returns the underlying segment slice. Callers must not mutate it.
func (p Path) Segments() []Segment { return p.segments }

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	cp := make([]Segment, len(p.segments))
	copy(cp, p.segments)
	return Path{segments: cp}
}

// Push appends a segment, returning a new Path (the receiver is untouched).
func (p Path) Push(seg Segment) Path {
	out := make([]Segment, len(p.segments)+1)
	copy(out, p.segments)
	out[len(p.segments)] = seg
	return Path{segments: out}
}

// Concat returns a new owned path with the segments of other appended after
// the segments of p. For the allocation-free form used during traversal,
// see ConcatIter.
func (p Path) Concat(other Path) Path {
	out := make([]Segment, 0, len(p.segments)+len(other.segments))
	out = append(out, p.segments...)
	out = append(out, other.segments...)
	return Path{segments: out}
}

// HasInvalid reports whether any segment in p is the Invalid placeholder.
func (p Path) HasInvalid() bool {
	for _, s := range p.segments {
		if s.Kind == Invalid {
			return true
		}
	}
	return false
}

// CanStartWith reports whether every segment of prefix equals the
// corresponding segment of p: index segments must match exactly, field
// segments by name, coalesce segments by their full candidate list.
func (p Path) CanStartWith(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, s := range prefix.segments {
		if !p.segments[i].Equal(s) {
			return false
		}
	}
	return true
}

// Iter returns a borrowed iterator over p's segments, expanding any
// Coalesce segment into a CoalesceField/CoalesceEnd run.
func (p Path) Iter() *Iterator {
	return &Iterator{segments: p.segments}
}

// Cursor is the minimal contract a borrowed path walker exposes: pull one
// Borrowed segment at a time. *Iterator and the value returned by
// ConcatIter both implement it.
type Cursor interface {
	Next() (Borrowed, bool)
}

// Iterator walks an owned Path (or a borrowed view produced by a parser)
// producing Borrowed segments lazily, without allocating beyond the small
// internal coalesce-expansion buffer.
type Iterator struct {
	segments []Segment
	idx      int
	coalesce []string // pending coalesce names still to emit
}

// Next yields the next Borrowed segment, or ok=false at end of path.
func (it *Iterator) Next() (Borrowed, bool) {
	if len(it.coalesce) > 0 {
		name := it.coalesce[0]
		it.coalesce = it.coalesce[1:]
		if len(it.coalesce) == 0 {
			return Borrowed{Kind: BCoalesceEnd, Name: name}, true
		}
		return Borrowed{Kind: BCoalesceField, Name: name}, true
	}
	if it.idx >= len(it.segments) {
		return Borrowed{}, false
	}
	seg := it.segments[it.idx]
	it.idx++
	switch seg.Kind {
	case Field:
		return Borrowed{Kind: BField, Name: seg.Name, NeedsQuoting: seg.NeedsQuoting}, true
	case Index:
		return Borrowed{Kind: BIndex, Idx: seg.Idx}, true
	case Coalesce:
		it.coalesce = seg.Names
		return it.Next()
	default:
		return Borrowed{Kind: BInvalid}, true
	}
}

// chainIterator chains two cursors without allocating a merged owned Path,
// falling through to the second once the first is exhausted.
type chainIterator struct {
	first, second Cursor
	onFirst       bool
}

func (c *chainIterator) Next() (Borrowed, bool) {
	if c.onFirst {
		if b, ok := c.first.Next(); ok {
			return b, true
		}
		c.onFirst = false
	}
	return c.second.Next()
}

// ConcatIter chains two cursors, yielding every segment of a followed by
// every segment of b, without allocating a merged owned Path.
func ConcatIter(a, b Cursor) Cursor {
	return &chainIterator{first: a, second: b, onFirst: true}
}

// ToOwned materializes a borrowed iteration into an owned Path. It fails
// (ok=false) iff the iteration yields an Invalid segment; consecutive
// CoalesceField/CoalesceEnd runs are re-folded into a single Coalesce
// segment.
func ToOwned(it Cursor) (Path, bool) {
	var out []Segment
	var pendingCoalesce []string
	flush := func() {
		if len(pendingCoalesce) > 0 {
			out = append(out, NewCoalesce(pendingCoalesce...))
			pendingCoalesce = nil
		}
	}
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		switch b.Kind {
		case BField:
			flush()
			out = append(out, NewField(b.Name, b.NeedsQuoting))
		case BIndex:
			flush()
			out = append(out, NewIndex(b.Idx))
		case BCoalesceField:
			pendingCoalesce = append(pendingCoalesce, b.Name)
		case BCoalesceEnd:
			pendingCoalesce = append(pendingCoalesce, b.Name)
			flush()
		default:
			return Path{}, false
		}
	}
	flush()
	return Path{segments: out}, true
}
