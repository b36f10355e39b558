package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

// UnaryLogging logs every unary call with its status code. Internal failures and panics are
// logged at error level; panics are turned into codes.Internal.
func UnaryLogging(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.Error("grpc handler panic", zap.String("method", info.FullMethod), zap.Any("panic", r))
				err = status.Error(codes.Internal, "internal error")
			}

			code := status.Code(err)
			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("duration", time.Since(start)),
			}
			switch code {
			case codes.Internal, codes.Unknown, codes.Unavailable:
				log.Error("grpc request", append(fields, zap.Error(err))...)
			default:
				log.Info("grpc request", fields...)
			}
		}()

		return handler(ctx, req)
	}
}
