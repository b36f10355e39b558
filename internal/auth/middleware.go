package auth

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// UnaryServerInterceptor resolves the bearer token in the "authorization" metadata and
// attaches the session to the request context. Requests without a token pass through
// anonymously; authorization is checked by each handler.
func UnaryServerInterceptor(resolver SessionResolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return handler(ctx, req)
		}
		vals := md.Get("authorization")
		if len(vals) == 0 {
			return handler(ctx, req)
		}
		token := bearerToken(vals[0])
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "malformed authorization metadata")
		}
		sess, err := resolver.GetSession(ctx, token)
		if err != nil {
			return nil, status.Error(codes.Unavailable, "session lookup failed")
		}
		if sess != nil {
			ctx = WithSession(ctx, sess)
		}
		return handler(ctx, req)
	}
}

// HTTPMiddleware is the net/http counterpart of UnaryServerInterceptor.
func HTTPMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := resolver.GetSession(r.Context(), token)
			if err != nil {
				http.Error(w, "session lookup failed", http.StatusServiceUnavailable)
				return
			}
			if sess != nil {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}
