package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeBytesConcatenates(t *testing.T) {
	dst := String("foo")
	Merge(&dst, String("bar"))
	s, _ := dst.StringValue()
	assert.Equal(t, "foobar", s)
}

func TestMergeNonBytesOverwrites(t *testing.T) {
	dst := Integer(1)
	Merge(&dst, Integer(2))
	iv, _ := dst.IntegerValue()
	assert.Equal(t, int64(2), iv)

	dst = Integer(1)
	Merge(&dst, String("x"))
	assert.Equal(t, TagBytes, dst.Tag())
}

func TestMergeClonesIncoming(t *testing.T) {
	o := NewObject()
	o.Set("a", Integer(1))
	incoming := NewObjectValue(o)

	dst := Integer(0)
	Merge(&dst, incoming)

	o.Set("a", Integer(99))
	dobj, _ := dst.ObjectValue()
	v, _ := dobj.Get("a")
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(1), iv, "merge must clone, not alias, the incoming value")
}
