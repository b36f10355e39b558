package structrpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type payment struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
}

type echoServer struct{ calls int }

func (e *echoServer) echo(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	e.calls++
	return in, nil
}

func TestEncodeDecode(t *testing.T) {
	in, err := Encode(payment{OrderID: "o-1", Amount: 53000})
	require.NoError(t, err)

	var out payment
	require.NoError(t, Decode(in, &out))
	assert.Equal(t, payment{OrderID: "o-1", Amount: 53000}, out)
}

func TestUnary_Interceptor(t *testing.T) {
	srv := &echoServer{}
	desc := Unary[*echoServer]("test.v1.Echo", "Echo", func(s *echoServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		return s.echo(ctx, in)
	})
	assert.Equal(t, "Echo", desc.MethodName)

	req, _ := structpb.NewStruct(map[string]interface{}{"order_id": "o-1"})
	dec := func(dst interface{}) error {
		proto.Merge(dst.(*structpb.Struct), req)
		return nil
	}

	var seen string
	interceptor := func(ctx context.Context, r interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		seen = info.FullMethod
		return handler(ctx, r)
	}

	resp, err := desc.Handler(srv, context.Background(), dec, interceptor)
	require.NoError(t, err)
	assert.Equal(t, "/test.v1.Echo/Echo", seen)
	assert.Equal(t, 1, srv.calls)
	assert.Equal(t, "o-1", resp.(*structpb.Struct).Fields["order_id"].GetStringValue())
}
