// Package structrpc builds gRPC service descriptors whose requests and responses are
// google.protobuf.Struct messages. Handlers decode the Struct into a plain Go DTO and encode
// their result back, so services can be served and reflected without generated stubs.
package structrpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/amigurumi-order-service/pkg/validate"
)

// Method is a unary handler bound to a server implementation of type S.
type Method[S any] func(srv S, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

// Unary wraps fn as a grpc.MethodDesc for service.
func Unary[S any](service, name string, fn Method[S]) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return fn(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Decode copies the Struct fields into dst using dst's json tags.
func Decode(in *structpb.Struct, dst interface{}) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// Encode converts v (any JSON-marshalable object) into a Struct.
func Encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Bind decodes in into dst and validates it. Failures are returned as InvalidArgument statuses.
func Bind(in *structpb.Struct, dst interface{}) error {
	if err := Decode(in, dst); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}
