// Package path implements the addressing scheme used to reach into a
// value tree: dotted field names, bracketed array indices, and coalesce
// groups, each available in an owned (heap-backed) and borrowed (view)
// form that share the same string encoding.
package path

import "fmt"

// Kind tags the variant of an owned Segment.
type Kind int

const (
	Field Kind = iota
	Index
	Coalesce
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Field:
		return "field"
	case Index:
		return "index"
	case Coalesce:
		return "coalesce"
	default:
		return "invalid"
	}
}

// Segment is one owned component of a Path. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Segment struct {
	Kind Kind

	// Field
	Name         string
	NeedsQuoting bool

	// Index. May be negative: i<0 counts from the end (len+i).
	Idx int

	// Coalesce. Nonempty list of candidate field names; first existing
	// child wins on read, last name wins when inserting into an absent
	// or empty object.
	Names []string
}

// NewField builds a Field segment. needsQuoting should be true whenever the
// name contains a byte outside [A-Za-z0-9_@] or a leading digit sequence
// that isn't by itself a valid bare identifier.
func NewField(name string, needsQuoting bool) Segment {
	return Segment{Kind: Field, Name: name, NeedsQuoting: needsQuoting}
}

// NewIndex builds an Index segment.
func NewIndex(i int) Segment {
	return Segment{Kind: Index, Idx: i}
}

// NewCoalesce builds a Coalesce segment over a nonempty list of names.
func NewCoalesce(names ...string) Segment {
	if len(names) == 0 {
		panic("path: coalesce segment requires at least one name")
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return Segment{Kind: Coalesce, Names: cp}
}

// NewInvalid builds an Invalid placeholder segment.
func NewInvalid() Segment {
	return Segment{Kind: Invalid}
}

func (s Segment) String() string {
	switch s.Kind {
	case Field:
		return fmt.Sprintf("Field(%q)", s.Name)
	case Index:
		return fmt.Sprintf("Index(%d)", s.Idx)
	case Coalesce:
		return fmt.Sprintf("Coalesce(%v)", s.Names)
	default:
		return "Invalid"
	}
}

// Equal compares two owned segments for the equality rules used by
// Path.CanStartWith: field segments compare by name, index segments by
// exact value, coalesce segments by their full candidate list.
func (s Segment) Equal(o Segment) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case Field:
		return s.Name == o.Name
	case Index:
		return s.Idx == o.Idx
	case Coalesce:
		if len(s.Names) != len(o.Names) {
			return false
		}
		for i := range s.Names {
			if s.Names[i] != o.Names[i] {
				return false
			}
		}
		return true
	default:
		return true // two Invalids are considered equal placeholders
	}
}

// BorrowedKind tags the variant yielded by an Iterator. Coalesce segments
// expand into a run of CoalesceField entries followed by one CoalesceEnd.
type BorrowedKind int

const (
	BField BorrowedKind = iota
	BIndex
	BCoalesceField
	BCoalesceEnd
	BInvalid
)

// Borrowed is one segment produced while walking a Path. It never owns
// heap storage beyond what the backing Path already holds.
type Borrowed struct {
	Kind         BorrowedKind
	Name         string
	NeedsQuoting bool
	Idx          int
}

func (b Borrowed) String() string {
	switch b.Kind {
	case BField:
		return fmt.Sprintf("Field(%q)", b.Name)
	case BIndex:
		return fmt.Sprintf("Index(%d)", b.Idx)
	case BCoalesceField:
		return fmt.Sprintf("CoalesceField(%q)", b.Name)
	case BCoalesceEnd:
		return fmt.Sprintf("CoalesceEnd(%q)", b.Name)
	default:
		return "Invalid"
	}
}

// ResolveIndex turns a possibly-negative logical index into an absolute
// slice position for a container of the given length. ok is false when the
// index is out of range (positive overflow is reported by the caller via
// gap-fill semantics rather than here).
func ResolveIndex(i, length int) (pos int, ok bool) {
	if i >= 0 {
		return i, i < length
	}
	pos = length + i
	return pos, pos >= 0
}
