package auth

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type sessionKey struct{}

// WithSession attaches the resolved session of the caller to ctx.
func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the caller's session, or nil for anonymous requests.
func SessionFrom(ctx context.Context) *model.Session {
	s, _ := ctx.Value(sessionKey{}).(*model.Session)
	return s
}

// RequireAdmin returns ErrUnauthenticated or ErrForbidden unless the caller is an admin.
func RequireAdmin(ctx context.Context) (*model.Session, error) {
	s := SessionFrom(ctx)
	if s == nil {
		return nil, ErrUnauthenticated
	}
	if !s.IsAdmin() {
		return nil, ErrForbidden
	}
	return s, nil
}

func RequireSession(ctx context.Context) (*model.Session, error) {
	s := SessionFrom(ctx)
	if s == nil {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

// GRPCStatus converts the access errors of this package into gRPC statuses. ok is false for
// any other error.
func GRPCStatus(err error) (st error, ok bool) {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error()), true
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrEmailNotConfirmed):
		return status.Error(codes.PermissionDenied, err.Error()), true
	case errors.Is(err, ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error()), true
	case errors.Is(err, ErrWeakPassword):
		return status.Error(codes.InvalidArgument, err.Error()), true
	}
	return nil, false
}
