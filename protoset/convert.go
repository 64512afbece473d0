package protoset

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/openllb/remap/value"
)

// NewMessage unmarshals raw wire bytes into a fresh dynamicpb message of
// md's type.
func NewMessage(md protoreflect.MessageDescriptor, raw []byte) (*dynamicpb.Message, error) {
	msg := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(raw, msg); err != nil {
		return nil, fmt.Errorf("protoset: unmarshaling %s: %w", md.FullName(), err)
	}
	return msg, nil
}

const timestampMessageName = "google.protobuf.Timestamp"

// ToMessage builds a dynamicpb message of md's type from v, applying the
// coercion rules spec §4.5 calls out: a Timestamp value maps onto a
// google.protobuf.Timestamp submessage (or an int64 micros field, handled
// by ToFieldValue below); enum fields accept a case-insensitive name or a
// number; map fields require an Object input.
func ToMessage(md protoreflect.MessageDescriptor, v value.Value) (*dynamicpb.Message, error) {
	msg := dynamicpb.NewMessage(md)
	obj, ok := v.ObjectValue()
	if !ok {
		return nil, fmt.Errorf("protoset: expected object to encode as %s, got %s", md.FullName(), v.Tag())
	}
	fields := md.Fields()
	for _, name := range obj.Keys() {
		fd := fields.ByName(protoreflect.Name(name))
		if fd == nil {
			continue // unknown field names are ignored, matching a forward-compatible descriptor read
		}
		child, _ := obj.Get(name)
		if child.IsNull() {
			continue
		}
		fv, err := ToFieldValue(fd, child)
		if err != nil {
			return nil, fmt.Errorf("protoset: field %s: %w", name, err)
		}
		msg.Set(fd, fv)
	}
	return msg, nil
}

// ToFieldValue converts a single Value into the protoreflect.Value a field
// descriptor expects.
func ToFieldValue(fd protoreflect.FieldDescriptor, v value.Value) (protoreflect.Value, error) {
	switch {
	case fd.IsMap():
		obj, ok := v.ObjectValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("map field requires an object, got %s", v.Tag())
		}
		mapVal := fd.MapValue()
		out := dynamicpb.NewMap(fd)
		for _, key := range obj.Keys() {
			child, _ := obj.Get(key)
			mv, err := ToFieldValue(mapVal, child)
			if err != nil {
				return protoreflect.Value{}, err
			}
			out.Set(protoreflect.ValueOfString(key).MapKey(), mv)
		}
		return protoreflect.ValueOfMap(out), nil
	case fd.IsList():
		arr, ok := v.ArrayValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("repeated field requires an array, got %s", v.Tag())
		}
		out := dynamicpb.NewList(fd)
		for _, el := range arr {
			ev, err := toScalarOrMessage(fd, el)
			if err != nil {
				return protoreflect.Value{}, err
			}
			out.Append(ev)
		}
		return protoreflect.ValueOfList(out), nil
	default:
		return toScalarOrMessage(fd, v)
	}
}

func toScalarOrMessage(fd protoreflect.FieldDescriptor, v value.Value) (protoreflect.Value, error) {
	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		if fd.Message().FullName() == timestampMessageName {
			ts, ok := v.TimestampValue()
			if !ok {
				return protoreflect.Value{}, fmt.Errorf("expected timestamp, got %s", v.Tag())
			}
			return protoreflect.ValueOfMessage(timestamppb.New(ts).ProtoReflect()), nil
		}
		child, err := ToMessage(fd.Message(), v)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfMessage(child), nil
	}
	return toScalar(fd, v)
}

func toScalar(fd protoreflect.FieldDescriptor, v value.Value) (protoreflect.Value, error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		b, ok := v.BooleanValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected boolean, got %s", v.Tag())
		}
		return protoreflect.ValueOfBool(b), nil
	case protoreflect.StringKind:
		s, ok := v.StringValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected string, got %s", v.Tag())
		}
		return protoreflect.ValueOfString(s), nil
	case protoreflect.BytesKind:
		b, ok := v.BytesValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected string, got %s", v.Tag())
		}
		return protoreflect.ValueOfBytes(b), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		i, ok := v.IntegerValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected integer, got %s", v.Tag())
		}
		return protoreflect.ValueOfInt32(int32(i)), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		if ts, ok := v.TimestampValue(); ok {
			return protoreflect.ValueOfInt64(ts.UnixMicro()), nil
		}
		i, ok := v.IntegerValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected integer, got %s", v.Tag())
		}
		return protoreflect.ValueOfInt64(i), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		i, ok := v.IntegerValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected integer, got %s", v.Tag())
		}
		return protoreflect.ValueOfUint32(uint32(i)), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		i, ok := v.IntegerValue()
		if !ok {
			return protoreflect.Value{}, fmt.Errorf("expected integer, got %s", v.Tag())
		}
		return protoreflect.ValueOfUint64(uint64(i)), nil
	case protoreflect.FloatKind:
		f, ok := v.FloatValue()
		if !ok {
			if i, iok := v.IntegerValue(); iok {
				f = float64(i)
			} else {
				return protoreflect.Value{}, fmt.Errorf("expected float, got %s", v.Tag())
			}
		}
		return protoreflect.ValueOfFloat32(float32(f)), nil
	case protoreflect.DoubleKind:
		f, ok := v.FloatValue()
		if !ok {
			if i, iok := v.IntegerValue(); iok {
				f = float64(i)
			} else {
				return protoreflect.Value{}, fmt.Errorf("expected float, got %s", v.Tag())
			}
		}
		return protoreflect.ValueOfFloat64(f), nil
	case protoreflect.EnumKind:
		return toEnum(fd, v)
	default:
		return protoreflect.Value{}, fmt.Errorf("unsupported proto field kind %s", fd.Kind())
	}
}

// toEnum accepts a case-insensitive name or a number (spec §4.5).
func toEnum(fd protoreflect.FieldDescriptor, v value.Value) (protoreflect.Value, error) {
	if i, ok := v.IntegerValue(); ok {
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(i)), nil
	}
	s, ok := v.StringValue()
	if !ok {
		return protoreflect.Value{}, fmt.Errorf("expected enum name or number, got %s", v.Tag())
	}
	values := fd.Enum().Values()
	for i := 0; i < values.Len(); i++ {
		ev := values.Get(i)
		if strings.EqualFold(string(ev.Name()), s) {
			return protoreflect.ValueOfEnum(ev.Number()), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), nil
	}
	return protoreflect.Value{}, fmt.Errorf("unknown enum value %q for %s", s, fd.Enum().FullName())
}

// FromMessage converts a decoded dynamicpb message back into a Value,
// inverting ToMessage's coercions.
func FromMessage(msg *dynamicpb.Message) value.Value {
	obj := value.NewObject()
	md := msg.Descriptor()
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if !msg.Has(fd) {
			continue
		}
		obj.Set(string(fd.Name()), fromFieldValue(fd, msg.Get(fd)))
	}
	return value.NewObjectValue(obj)
}

func fromFieldValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) value.Value {
	switch {
	case fd.IsMap():
		m := v.Map()
		obj := value.NewObject()
		m.Range(func(k protoreflect.MapKey, mv protoreflect.Value) bool {
			obj.Set(k.String(), fromScalarOrMessage(fd.MapValue(), mv))
			return true
		})
		return value.NewObjectValue(obj)
	case fd.IsList():
		list := v.List()
		items := make([]value.Value, list.Len())
		for i := 0; i < list.Len(); i++ {
			items[i] = fromScalarOrMessage(fd, list.Get(i))
		}
		return value.Array(items...)
	default:
		return fromScalarOrMessage(fd, v)
	}
}

func fromScalarOrMessage(fd protoreflect.FieldDescriptor, v protoreflect.Value) value.Value {
	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		if fd.Message().FullName() == timestampMessageName {
			m := v.Message()
			tsFields := m.Descriptor().Fields()
			ts := &timestamppb.Timestamp{
				Seconds: m.Get(tsFields.ByName("seconds")).Int(),
				Nanos:   int32(m.Get(tsFields.ByName("nanos")).Int()),
			}
			return value.Timestamp(ts.AsTime())
		}
		dyn, ok := v.Message().Interface().(*dynamicpb.Message)
		if !ok {
			return value.Null()
		}
		return FromMessage(dyn)
	}
	return fromScalar(fd, v)
}

func fromScalar(fd protoreflect.FieldDescriptor, v protoreflect.Value) value.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return value.Boolean(v.Bool())
	case protoreflect.StringKind:
		return value.String(v.String())
	case protoreflect.BytesKind:
		return value.Bytes(v.Bytes())
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return value.Integer(v.Int())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return value.Integer(int64(v.Uint()))
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return value.Float(v.Float())
	case protoreflect.EnumKind:
		name := fd.Enum().Values().ByNumber(v.Enum())
		if name != nil {
			return value.String(string(name.Name()))
		}
		return value.Integer(int64(v.Enum()))
	default:
		return value.Null()
	}
}
