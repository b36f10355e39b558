package client

import (
	"context"
	"errors"

	"github.com/fekuna/amigurumi-order-service/internal/client/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
)

var (
	ErrReferralCodeTaken   = errors.New("referral code already in use")
	ErrUnknownReferralCode = errors.New("unknown referral code")
)

type UseCase interface {
	Register(ctx context.Context, input *dto.RegisterInput) (*model.Client, error)
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	ListReferrals(ctx context.Context, clientID string) ([]model.Referral, error)
}

// Registrar creates the login account backing a client, and removes it again when the client
// row cannot be stored.
type Registrar interface {
	SignUp(ctx context.Context, email, password string, role model.Role) (string, error)
	DeleteUser(ctx context.Context, id string) error
}
