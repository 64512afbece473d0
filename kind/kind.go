// Package kind implements the compile-time type lattice over Value shapes:
// a bitmask union of primitive kinds plus optional structural descriptors
// for arrays and objects (spec §4.3).
package kind

import (
	"strings"

	"github.com/openllb/remap/path"
)

// Primitive is a bitmask over the scalar/container kind tags a Value may
// statically carry.
type Primitive uint16

const (
	Bytes Primitive = 1 << iota
	Integer
	Float
	Boolean
	Timestamp
	Regex
	Null
	arrayBit
	objectBit
)

var names = []struct {
	bit  Primitive
	name string
}{
	{Bytes, "string"},
	{Integer, "integer"},
	{Float, "float"},
	{Boolean, "boolean"},
	{Timestamp, "timestamp"},
	{Regex, "regex"},
	{Null, "null"},
	{arrayBit, "array"},
	{objectBit, "object"},
}

// Kind is the compile-time type lattice element: a primitive bitmask plus,
// when the array/object bit is set, the Collection describing known
// element/field kinds.
type Kind struct {
	Prim   Primitive
	Array  *Collection[int]
	Object *Collection[string]
}

func prim(p Primitive) Kind { return Kind{Prim: p} }

func BytesKind() Kind     { return prim(Bytes) }
func IntegerKind() Kind   { return prim(Integer) }
func FloatKind() Kind     { return prim(Float) }
func BooleanKind() Kind   { return prim(Boolean) }
func TimestampKind() Kind { return prim(Timestamp) }
func RegexKind() Kind     { return prim(Regex) }
func NullKind() Kind      { return prim(Null) }

// Never is the empty type — the bottom of the lattice.
func Never() Kind { return Kind{} }

// AnyArray is an open array: any element kind is possible at any index.
func AnyArray() Kind {
	return Kind{Prim: arrayBit, Array: OpenCollection[int](Any())}
}

// AnyObject is an open object: any field name may hold any kind.
func AnyObject() Kind {
	return Kind{Prim: objectBit, Object: OpenCollection[string](Any())}
}

// Any is the top of the lattice: every primitive bit set plus open array
// and object descriptors.
func Any() Kind {
	var all Primitive
	for _, n := range names {
		all |= n.bit
	}
	return Kind{
		Prim:   all,
		Array:  OpenCollection[int](Kind{Prim: all &^ (arrayBit | objectBit)}),
		Object: OpenCollection[string](Kind{Prim: all &^ (arrayBit | objectBit)}),
	}
}

// ExactArray builds a Kind for a closed or open array collection.
func ExactArray(c *Collection[int]) Kind { return Kind{Prim: arrayBit, Array: c} }

// ExactObject builds a Kind for a closed or open object collection.
func ExactObject(c *Collection[string]) Kind { return Kind{Prim: objectBit, Object: c} }

// IsArray reports whether the array bit is set.
func (k Kind) IsArray() bool { return k.Prim&arrayBit != 0 }

// IsObject reports whether the object bit is set.
func (k Kind) IsObject() bool { return k.Prim&objectBit != 0 }

// Contains reports whether k admits every primitive bit set in p (the
// structural object/array bits included).
func (k Kind) Contains(p Primitive) bool { return k.Prim&p == p }

// IsExact reports whether k admits exactly the primitive bits in p and
// nothing else.
func (k Kind) IsExact(p Primitive) bool { return k.Prim == p }

// OrNull returns k widened to also admit Null.
func (k Kind) OrNull() Kind {
	out := k
	out.Prim |= Null
	return out
}

func (k Kind) String() string {
	if k.Prim == 0 {
		return "never"
	}
	var parts []string
	for _, n := range names {
		if n.bit == arrayBit || n.bit == objectBit {
			continue
		}
		if k.Prim&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if k.IsArray() {
		parts = append(parts, "array")
	}
	if k.IsObject() {
		parts = append(parts, "object")
	}
	return strings.Join(parts, "|")
}

// Union computes the pointwise-widening union of a and b (spec §4.3).
func Union(a, b Kind) Kind {
	return Kind{
		Prim:   a.Prim | b.Prim,
		Array:  unionCollection(a.Array, b.Array),
		Object: unionCollection(a.Object, b.Object),
	}
}

// Intersect computes the intersection of a and b (spec §4.3).
func Intersect(a, b Kind) Kind {
	return Kind{
		Prim:   a.Prim & b.Prim,
		Array:  intersectCollection(a.Array, b.Array),
		Object: intersectCollection(a.Object, b.Object),
	}
}

// MismatchPath is returned by IsSuperset when self fails to admit
// everything other admits; it names the first position of divergence.
type MismatchPath = path.Path

// IsSuperset reports whether self admits every value other admits. On
// failure it returns the first path at which self is too narrow.
func (self Kind) IsSuperset(other Kind) (ok bool, at MismatchPath) {
	if other.Prim&^self.Prim&^(arrayBit|objectBit) != 0 {
		return false, path.Root()
	}
	if other.IsArray() {
		if !self.IsArray() {
			return false, path.Root()
		}
		if ok, sub := collectionSuperset(self.Array, other.Array, func(i int) path.Segment {
			return path.NewIndex(i)
		}); !ok {
			return false, sub
		}
	}
	if other.IsObject() {
		if !self.IsObject() {
			return false, path.Root()
		}
		if ok, sub := collectionSuperset(self.Object, other.Object, func(name string) path.Segment {
			return path.NewField(name, false)
		}); !ok {
			return false, sub
		}
	}
	return true, path.Root()
}

func collectionSuperset[K comparable](self, other *Collection[K], toSeg func(K) path.Segment) (bool, path.Path) {
	if other == nil {
		return true, path.Root()
	}
	if self == nil {
		return false, path.Root()
	}
	for k, otherKind := range other.Known {
		selfKind, present := self.Known[k]
		if !present {
			selfKind = self.Unknown
		}
		if okSup, sub := selfKind.IsSuperset(otherKind); !okSup {
			return false, path.New(toSeg(k)).Concat(sub)
		}
	}
	if okSup, sub := self.Unknown.IsSuperset(other.Unknown); !okSup {
		return false, sub
	}
	return true, path.Root()
}

// AtPath projects k through a sequence of field/index segments, returning
// Null for positions statically known absent and Any for unconstrained
// unknowns (spec §4.3).
func (k Kind) AtPath(p path.Path) Kind {
	cur := k
	it := p.Iter()
	for {
		seg, ok := it.Next()
		if !ok {
			return cur
		}
		switch seg.Kind {
		case path.BField:
			if !cur.IsObject() || cur.Object == nil {
				return NullKind()
			}
			if child, present := cur.Object.Known[seg.Name]; present {
				cur = child
				continue
			}
			if cur.Object.IsClosed() {
				return NullKind()
			}
			cur = cur.Object.Unknown
		case path.BIndex:
			if !cur.IsArray() || cur.Array == nil {
				return NullKind()
			}
			if child, present := cur.Array.Known[seg.Idx]; present {
				cur = child
				continue
			}
			if cur.Array.IsClosed() {
				return NullKind()
			}
			cur = cur.Array.Unknown
		case path.BCoalesceField, path.BCoalesceEnd:
			if !cur.IsObject() || cur.Object == nil {
				return NullKind()
			}
			child, present := cur.Object.Known[seg.Name]
			if !present {
				child = cur.Object.Unknown
			}
			cur = child
		default:
			return NullKind()
		}
	}
}

// RemoveAtPath conservatively updates k to reflect a runtime removal at p.
// It drops the removed key or index from the parent container's known
// entries; when compact is set it also widens the parent container's own
// Kind with Null, since compaction may remove that container. Exact
// post-removal cardinality is not tracked (spec §4.3, §9 design notes).
func (k Kind) RemoveAtPath(p path.Path, compact bool) Kind {
	segs := p.Segments()
	if len(segs) == 0 {
		return NullKind()
	}
	head := segs[:len(segs)-1]
	last := segs[len(segs)-1]
	parent := k.AtPath(path.New(head...))

	switch last.Kind {
	case path.Field:
		if !parent.IsObject() || parent.Object == nil {
			return k
		}
		clone := parent.Object.Clone()
		delete(clone.Known, last.Name)
		newParent := ExactObject(clone)
		if compact {
			newParent = newParent.OrNull()
		}
		return replaceAtPath(k, path.New(head...), newParent)
	case path.Index:
		if !parent.IsArray() || parent.Array == nil {
			return k
		}
		clone := parent.Array.Clone()
		delete(clone.Known, last.Idx)
		newParent := ExactArray(clone)
		if compact {
			newParent = newParent.OrNull()
		}
		return replaceAtPath(k, path.New(head...), newParent)
	default:
		return k
	}
}

// InsertAtPath returns k updated so that a subsequent AtPath(p) reflects
// replacement, widening ancestor containers as needed (spec §4.3). Used by
// Assignment's type inference and by statically-typed CRUD functions such
// as `set`/`del`.
func InsertAtPath(k Kind, p path.Path, replacement Kind) Kind {
	return replaceAtPath(k, p, replacement)
}

// replaceAtPath rebuilds k with the Kind at p replaced by replacement,
// widening every ancestor along the way with Union so the result remains a
// sound (if imprecise) overapproximation.
func replaceAtPath(k Kind, p path.Path, replacement Kind) Kind {
	segs := p.Segments()
	if len(segs) == 0 {
		return replacement
	}
	head := segs[:len(segs)-1]
	last := segs[len(segs)-1]
	parent := k.AtPath(path.New(head...))
	switch last.Kind {
	case path.Field:
		var clone *Collection[string]
		if parent.Object != nil {
			clone = parent.Object.Clone()
		} else {
			clone = OpenCollection[string](Any())
		}
		clone.Known[last.Name] = replacement
		return replaceAtPath(k, path.New(head...), ExactObject(clone))
	case path.Index:
		var clone *Collection[int]
		if parent.Array != nil {
			clone = parent.Array.Clone()
		} else {
			clone = OpenCollection[int](Any())
		}
		clone.Known[last.Idx] = replacement
		return replaceAtPath(k, path.New(head...), ExactArray(clone))
	default:
		return k
	}
}
