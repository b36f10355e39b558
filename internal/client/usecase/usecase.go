package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/client"
	"github.com/fekuna/amigurumi-order-service/internal/client/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

const (
	referralAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referralCodeLength = 8
	maxCodeAttempts    = 5
)

type clientUseCase struct {
	repo      client.Repository
	registrar client.Registrar
	logger    logger.ZapLogger
	newCode   func() (string, error)
}

func NewClientUseCase(repo client.Repository, registrar client.Registrar, log logger.ZapLogger) client.UseCase {
	return &clientUseCase{
		repo:      repo,
		registrar: registrar,
		logger:    log,
		newCode:   randomReferralCode,
	}
}

func (uc *clientUseCase) Register(ctx context.Context, input *dto.RegisterInput) (*model.Client, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, auth.ErrEmailTaken
	}

	var referrer *model.Client
	if input.ReferredBy != "" {
		referrer, err = uc.repo.FindByReferralCode(ctx, strings.ToUpper(input.ReferredBy))
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, client.ErrUnknownReferralCode
		}
	}

	userID, err := uc.registrar.SignUp(ctx, email, input.Password, model.RoleClient)
	if err != nil {
		return nil, err
	}

	c := &model.Client{
		ID:        uuid.New().String(),
		FullName:  strings.TrimSpace(input.FullName),
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Tier:      model.TierNew,
		CreatedAt: time.Now().UTC(),
	}

	for attempt := 1; ; attempt++ {
		c.ReferralCode, err = uc.newCode()
		if err != nil {
			return nil, err
		}
		err = uc.repo.Create(ctx, c)
		if !errors.Is(err, client.ErrReferralCodeTaken) || attempt == maxCodeAttempts {
			break
		}
	}
	if err != nil {
		uc.discardUser(ctx, userID, email)
		return nil, err
	}

	if referrer != nil {
		ref := &model.Referral{
			ID:               uuid.New().String(),
			ReferrerClientID: referrer.ID,
			ReferredEmail:    email,
			Status:           "pending",
			CreatedAt:        c.CreatedAt,
		}
		if err := uc.repo.CreateReferral(ctx, ref); err != nil {
			uc.logger.Error("failed to record referral",
				zap.String("referrer_id", referrer.ID),
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}

	uc.logger.Info("client registered", zap.String("client_id", c.ID), zap.String("email", email))
	return c, nil
}

// discardUser drops the login account of a registration whose client row was not stored, so the
// same email can register again.
func (uc *clientUseCase) discardUser(ctx context.Context, userID, email string) {
	if err := uc.registrar.DeleteUser(context.WithoutCancel(ctx), userID); err != nil {
		uc.logger.Error("failed to remove orphaned user",
			zap.String("user_id", userID),
			zap.String("email", email),
			zap.Error(err),
		)
	}
}

func (uc *clientUseCase) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	return uc.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (uc *clientUseCase) ListReferrals(ctx context.Context, clientID string) ([]model.Referral, error) {
	return uc.repo.ListReferrals(ctx, clientID)
}

func randomReferralCode() (string, error) {
	limit := big.NewInt(int64(len(referralAlphabet)))
	b := make([]byte, referralCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = referralAlphabet[n.Int64()]
	}
	return string(b), nil
}
