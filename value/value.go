// Package value implements the recursive Value model — the tagged sum of
// scalar, container, and special kinds that remap programs read, mutate,
// and return — together with path-indexed CRUD (get/insert/remove) and
// merge.
package value

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// Tag discriminates a Value's variant.
type Tag int

const (
	TagBytes Tag = iota
	TagRegex
	TagInteger
	TagFloat
	TagBoolean
	TagTimestamp
	TagObject
	TagArray
	TagNull
)

func (t Tag) String() string {
	switch t {
	case TagBytes:
		return "string"
	case TagRegex:
		return "string" // spec §3: Bytes and Regex share the "string" kind-name for diagnostics
	case TagInteger:
		return "integer"
	case TagFloat:
		return "float"
	case TagBoolean:
		return "boolean"
	case TagTimestamp:
		return "timestamp"
	case TagObject:
		return "object"
	case TagArray:
		return "array"
	default:
		return "null"
	}
}

// Regex pairs a compiled pattern with its source text; equality and
// hashing are defined over the source text alone (spec §3).
type Regex struct {
	Source   string
	Compiled *regexp.Regexp
}

// Value is the tagged sum described in spec §3. Only the field matching Tag
// is meaningful. Object uses an insertion-ordered representation so field
// iteration order is stable and observable.
type Value struct {
	tag   Tag
	bytes []byte
	regex Regex
	i     int64
	f     float64
	b     bool
	ts    time.Time
	obj   *Object
	arr   []Value
}

// Object is an insertion-unordered mapping from UTF-8 field name to Value.
// Keys preserve first-insertion order for stable iteration and diagnostics.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Len() int { return len(o.keys) }

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set inserts or overwrites key, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Delete removes key, returning the previous value if present.
func (o *Object) Delete(key string) (Value, bool) {
	v, ok := o.values[key]
	if !ok {
		return Value{}, false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Keys returns field names in insertion order. Callers must not mutate it.
func (o *Object) Keys() []string { return o.keys }

func (o *Object) Clone() *Object {
	cp := NewObject()
	cp.keys = make([]string, len(o.keys))
	copy(cp.keys, o.keys)
	cp.values = make(map[string]Value, len(o.values))
	for k, v := range o.values {
		cp.values[k] = v.Clone()
	}
	return cp
}

// --- constructors ---

func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{tag: TagBytes, bytes: cp}
}

func String(s string) Value { return Bytes([]byte(s)) }

// NewRegex validates pat can be compiled with Go's RE2 engine and wraps it.
func NewRegex(pat string) (Value, error) {
	re, err := regexp.Compile(pat)
	if err != nil {
		return Value{}, fmt.Errorf("value: invalid regex %q: %w", pat, err)
	}
	return Value{tag: TagRegex, regex: Regex{Source: pat, Compiled: re}}, nil
}

func Integer(i int64) Value { return Value{tag: TagInteger, i: i} }

// Float constructs a Float value. It panics on NaN, matching spec §3's
// invariant that encoders reject NaN before it ever reaches the Value
// model — callers producing a float from an arbitrary computation must
// check math.IsNaN themselves and fail the expression instead.
func Float(f float64) Value {
	if math.IsNaN(f) {
		panic("value: Float must not be NaN")
	}
	return Value{tag: TagFloat, f: f}
}

func Boolean(b bool) Value { return Value{tag: TagBoolean, b: b} }

func Timestamp(t time.Time) Value { return Value{tag: TagTimestamp, ts: t.UTC()} }

func NewObjectValue(o *Object) Value { return Value{tag: TagObject, obj: o} }

func EmptyObject() Value { return Value{tag: TagObject, obj: NewObject()} }

func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{tag: TagArray, arr: cp}
}

func Null() Value { return Value{tag: TagNull} }

// --- accessors ---

func (v Value) Tag() Tag { return v.tag }

func (v Value) IsNull() bool { return v.tag == TagNull }

func (v Value) BytesValue() ([]byte, bool) {
	if v.tag != TagBytes {
		return nil, false
	}
	return v.bytes, true
}

func (v Value) StringValue() (string, bool) {
	b, ok := v.BytesValue()
	return string(b), ok
}

func (v Value) RegexValue() (Regex, bool) {
	if v.tag != TagRegex {
		return Regex{}, false
	}
	return v.regex, true
}

func (v Value) IntegerValue() (int64, bool) {
	if v.tag != TagInteger {
		return 0, false
	}
	return v.i, true
}

func (v Value) FloatValue() (float64, bool) {
	if v.tag != TagFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) BooleanValue() (bool, bool) {
	if v.tag != TagBoolean {
		return false, false
	}
	return v.b, true
}

func (v Value) TimestampValue() (time.Time, bool) {
	if v.tag != TagTimestamp {
		return time.Time{}, false
	}
	return v.ts, true
}

func (v Value) ObjectValue() (*Object, bool) {
	if v.tag != TagObject {
		return nil, false
	}
	return v.obj, true
}

func (v Value) ArrayValue() ([]Value, bool) {
	if v.tag != TagArray {
		return nil, false
	}
	return v.arr, true
}

// IsEmpty reports the spec §3 emptiness rule: Null, or an empty Object, or
// an empty Array.
func (v Value) IsEmpty() bool {
	switch v.tag {
	case TagNull:
		return true
	case TagObject:
		return v.obj.Len() == 0
	case TagArray:
		return len(v.arr) == 0
	default:
		return false
	}
}

func (v Value) Clone() Value {
	switch v.tag {
	case TagObject:
		return Value{tag: TagObject, obj: v.obj.Clone()}
	case TagArray:
		cp := make([]Value, len(v.arr))
		for i, e := range v.arr {
			cp[i] = e.Clone()
		}
		return Value{tag: TagArray, arr: cp}
	case TagBytes:
		return Bytes(v.bytes)
	default:
		return v
	}
}

func (v Value) String() string {
	switch v.tag {
	case TagBytes:
		return string(v.bytes)
	case TagRegex:
		return v.regex.Source
	case TagInteger:
		return fmt.Sprintf("%d", v.i)
	case TagFloat:
		return fmt.Sprintf("%v", v.f)
	case TagBoolean:
		return fmt.Sprintf("%v", v.b)
	case TagTimestamp:
		return v.ts.Format(time.RFC3339Nano)
	case TagObject:
		return fmt.Sprintf("<object len=%d>", v.obj.Len())
	case TagArray:
		return fmt.Sprintf("<array len=%d>", len(v.arr))
	default:
		return "null"
	}
}
