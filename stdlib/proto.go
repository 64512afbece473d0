package stdlib

import (
	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/protoset"
	"github.com/openllb/remap/runtime"
	"github.com/openllb/remap/value"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func protoParams() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", KindMask: kind.Any(), Required: true},
		{Keyword: "desc_file", KindMask: kind.BytesKind(), Required: true},
		{Keyword: "message_type", KindMask: kind.BytesKind(), Required: true},
	}
}

func resolveDescriptor(cctx *function.CompileContext, args *function.ArgumentList) (protoreflect.MessageDescriptor, error) {
	descFileVal, err := args.RequiredLiteral("desc_file")
	if err != nil {
		return nil, err
	}
	messageTypeVal, err := args.RequiredLiteral("message_type")
	if err != nil {
		return nil, err
	}
	descFile, _ := descFileVal.StringValue()
	messageType, _ := messageTypeVal.StringValue()
	return cctx.Protoset.FindMessage(descFile, messageType)
}

// EncodeProto implements `encode_proto(value, desc_file, message_type)`
// (spec §4.5): desc_file and message_type must be compile-time literal
// bytes, loaded once through the shared descriptor Loader.
type EncodeProto struct{}

func (EncodeProto) Identifier() string               { return "encode_proto" }
func (EncodeProto) Parameters() []function.Parameter { return protoParams() }
func (EncodeProto) Examples() []function.Example {
	return []function.Example{{
		Title:  "encode a message",
		Source: `encode_proto({"name": "ferris"}, desc_file: "test.desc", message_type: "test.Animal")`,
		Result: "<bytes>",
	}}
}

func (EncodeProto) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	md, err := resolveDescriptor(cctx, args)
	if err != nil {
		return nil, err
	}
	_, next := valueExpr.TypeInfo(state)
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: kind.BytesKind(), Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			msg, err := protoset.ToMessage(md, v)
			if err != nil {
				return value.Value{}, runtime.WrapEvalError(err)
			}
			encoded, err := proto.Marshal(msg)
			if err != nil {
				return value.Value{}, runtime.WrapEvalError(err)
			}
			return value.Bytes(encoded), nil
		},
	}, nil
}

// ParseProto implements `parse_proto(value, desc_file, message_type)`
// (spec §4.5).
type ParseProto struct{}

func (ParseProto) Identifier() string               { return "parse_proto" }
func (ParseProto) Parameters() []function.Parameter { return protoParams() }
func (ParseProto) Examples() []function.Example {
	return []function.Example{{
		Title:  "decode a message",
		Source: `parse_proto(.raw, desc_file: "test.desc", message_type: "test.Animal")`,
		Result: `{"name": "ferris"}`,
	}}
}

func (ParseProto) Compile(state *compiler.TypeState, cctx *function.CompileContext, args *function.ArgumentList) (*ast.FunctionExpression, error) {
	valueExpr, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	md, err := resolveDescriptor(cctx, args)
	if err != nil {
		return nil, err
	}
	_, next := valueExpr.TypeInfo(state)
	return &ast.FunctionExpression{
		Def:       compiler.TypeDef{Kind: kind.AnyObject(), Fallible: true},
		NextState: next,
		ResolveFn: func(ctx *runtime.Context) (value.Value, error) {
			v, err := valueExpr.Resolve(ctx)
			if err != nil {
				return value.Value{}, err
			}
			raw, ok := v.BytesValue()
			if !ok {
				return value.Value{}, runtime.NewEvalError("expected string, got %s", v.Tag())
			}
			msg, err := protoset.NewMessage(md, raw)
			if err != nil {
				return value.Value{}, runtime.WrapEvalError(err)
			}
			return protoset.FromMessage(msg), nil
		},
	}, nil
}
