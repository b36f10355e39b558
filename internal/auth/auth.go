package auth

import (
	"context"
	"errors"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWeakPassword       = errors.New("password is too short")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	Delete(ctx context.Context, id string) error
}

// SessionStore is the authoritative session storage.
type SessionStore interface {
	Save(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}
