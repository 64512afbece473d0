package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openllb/remap/kind"
)

func TestBindLocalAndLookup(t *testing.T) {
	s := NewTypeState(kind.AnyObject(), kind.AnyObject())
	_, ok := s.Local("x")
	assert.False(t, ok)

	s.BindLocal("x", kind.IntegerKind())
	k, ok := s.Local("x")
	assert.True(t, ok)
	assert.True(t, k.IsExact(kind.Integer))
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewTypeState(kind.AnyObject(), kind.AnyObject())
	s.BindLocal("x", kind.IntegerKind())

	clone := s.Clone()
	clone.BindLocal("x", kind.BytesKind())
	clone.BindLocal("y", kind.BooleanKind())

	k, _ := s.Local("x")
	assert.True(t, k.IsExact(kind.Integer), "mutating the clone must not affect the original")
	_, ok := s.Local("y")
	assert.False(t, ok)
}

func TestMergeUnionsBoundLocalsAndWidensOneSided(t *testing.T) {
	base := NewTypeState(kind.AnyObject(), kind.AnyObject())
	base.BindLocal("x", kind.IntegerKind())

	left := base.Clone()
	left.BindLocal("x", kind.BytesKind())

	right := base.Clone()
	right.BindLocal("y", kind.BooleanKind())

	merged := left.Merge(right)

	x, ok := merged.Local("x")
	assert.True(t, ok)
	assert.True(t, x.Contains(kind.Integer))
	assert.True(t, x.Contains(kind.Bytes))

	y, ok := merged.Local("y")
	assert.True(t, ok)
	assert.True(t, y.Contains(kind.Boolean))
	assert.True(t, y.Contains(kind.Null), "y is only bound on one branch, so the join must admit it being absent")
}

func TestLocalNames(t *testing.T) {
	s := NewTypeState(kind.AnyObject(), kind.AnyObject())
	s.BindLocal("a", kind.IntegerKind())
	s.BindLocal("b", kind.BytesKind())

	names := s.LocalNames()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}
