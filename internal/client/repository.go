package client

import (
	"context"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	FindByReferralCode(ctx context.Context, code string) (*model.Client, error)
	CreateReferral(ctx context.Context, r *model.Referral) error
	ListReferrals(ctx context.Context, referrerID string) ([]model.Referral, error)
}
