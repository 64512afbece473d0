package protoset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/openllb/remap/value"
)

// buildDescriptorSet hand-assembles a single-message FileDescriptorSet
// (a "name" string field, an "age" int32 field) the way protoc would emit
// one for a tiny .proto file, without requiring protoc at test time.
func buildDescriptorSet() *descriptorpb.FileDescriptorSet {
	strType := descriptorpb.FieldDescriptorProto_TYPE_STRING
	i32Type := descriptorpb.FieldDescriptorProto_TYPE_INT32
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL

	msg := &descriptorpb.DescriptorProto{
		Name: proto.String("Person"),
		Field: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("name"), Number: proto.Int32(1), Type: &strType, Label: &optional},
			{Name: proto.String("age"), Number: proto.Int32(2), Type: &i32Type, Label: &optional},
		},
	}
	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("person.proto"),
		Package: proto.String("test"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{msg},
	}
	return &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{file}}
}

func writeDescriptorSet(t *testing.T) string {
	t.Helper()
	data, err := proto.Marshal(buildDescriptorSet())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "person.protoset")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoaderLoadAndFindMessage(t *testing.T) {
	path := writeDescriptorSet(t)
	l := NewLoader()

	md, err := l.FindMessage(path, "test.Person")
	require.NoError(t, err)
	assert.Equal(t, "Person", string(md.Name()))
	assert.Equal(t, 2, md.Fields().Len())
}

func TestLoaderCachesByPath(t *testing.T) {
	path := writeDescriptorSet(t)
	l := NewLoader()

	f1, err := l.Load(path)
	require.NoError(t, err)
	f2, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, f1, f2, "a second Load of the same path must hit the cache")
}

func TestLoaderFindMessageUnknownType(t *testing.T) {
	path := writeDescriptorSet(t)
	l := NewLoader()

	_, err := l.FindMessage(path, "test.Bogus")
	assert.Error(t, err)
}

func TestToMessageAndFromMessageRoundTrip(t *testing.T) {
	path := writeDescriptorSet(t)
	l := NewLoader()
	md, err := l.FindMessage(path, "test.Person")
	require.NoError(t, err)

	obj := value.NewObject()
	obj.Set("name", value.String("ada"))
	obj.Set("age", value.Integer(30))

	msg, err := ToMessage(md, value.NewObjectValue(obj))
	require.NoError(t, err)

	raw, err := proto.Marshal(msg)
	require.NoError(t, err)

	decoded, err := NewMessage(md, raw)
	require.NoError(t, err)

	got := FromMessage(decoded)
	out, ok := got.ObjectValue()
	require.True(t, ok)

	name, _ := out.Get("name")
	s, _ := name.StringValue()
	assert.Equal(t, "ada", s)

	age, _ := out.Get("age")
	iv, _ := age.IntegerValue()
	assert.Equal(t, int64(30), iv)
}

func TestToMessageRejectsNonObject(t *testing.T) {
	path := writeDescriptorSet(t)
	l := NewLoader()
	md, err := l.FindMessage(path, "test.Person")
	require.NoError(t, err)

	_, err = ToMessage(md, value.Integer(1))
	assert.Error(t, err)
}

func TestToMessageIgnoresUnknownFields(t *testing.T) {
	path := writeDescriptorSet(t)
	l := NewLoader()
	md, err := l.FindMessage(path, "test.Person")
	require.NoError(t, err)

	obj := value.NewObject()
	obj.Set("name", value.String("ada"))
	obj.Set("bogus_field", value.Integer(1))

	_, err = ToMessage(md, value.NewObjectValue(obj))
	require.NoError(t, err, "unknown field names are ignored, not rejected")
}
