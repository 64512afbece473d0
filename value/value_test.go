package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsAndAccessors(t *testing.T) {
	s := String("hello")
	b, ok := s.StringValue()
	assert.True(t, ok)
	assert.Equal(t, "hello", b)

	i := Integer(42)
	iv, ok := i.IntegerValue()
	assert.True(t, ok)
	assert.Equal(t, int64(42), iv)

	f := Float(1.5)
	fv, ok := f.FloatValue()
	assert.True(t, ok)
	assert.Equal(t, 1.5, fv)

	bl := Boolean(true)
	bv, ok := bl.BooleanValue()
	assert.True(t, ok)
	assert.True(t, bv)

	ts := Timestamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	tv, ok := ts.TimestampValue()
	assert.True(t, ok)
	assert.Equal(t, 2020, tv.Year())

	assert.True(t, Null().IsNull())
}

func TestFloatPanicsOnNaN(t *testing.T) {
	assert.Panics(t, func() {
		Float(math.NaN())
	})
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Null().IsEmpty())
	assert.True(t, EmptyObject().IsEmpty())
	assert.True(t, Array().IsEmpty())
	assert.False(t, Array(Integer(1)).IsEmpty())
	assert.False(t, Integer(0).IsEmpty())
}

func TestObjectInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Integer(2))
	o.Set("a", Integer(1))
	o.Set("b", Integer(20))
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	assert.True(t, ok)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(20), iv)
}

func TestObjectDelete(t *testing.T) {
	o := NewObject()
	o.Set("a", Integer(1))
	o.Set("b", Integer(2))
	v, ok := o.Delete("a")
	assert.True(t, ok)
	iv, _ := v.IntegerValue()
	assert.Equal(t, int64(1), iv)
	assert.Equal(t, []string{"b"}, o.Keys())

	_, ok = o.Delete("missing")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	o := NewObject()
	o.Set("a", Array(Integer(1)))
	v := NewObjectValue(o)
	clone := v.Clone()

	obj, _ := clone.ObjectValue()
	obj.Set("a", Integer(99))

	orig, _ := v.ObjectValue()
	a, _ := orig.Get("a")
	assert.Equal(t, TagArray, a.Tag(), "mutating clone must not affect original")
}

func TestRegexEquality(t *testing.T) {
	r, err := NewRegex(`^\d+$`)
	assert.NoError(t, err)
	rv, ok := r.RegexValue()
	assert.True(t, ok)
	assert.Equal(t, `^\d+$`, rv.Source)
	assert.True(t, rv.Compiled.MatchString("123"))

	_, err = NewRegex("(")
	assert.Error(t, err)
}
