package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/client"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/database/postgres"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Client) error {
	query := `
        INSERT INTO clients (
            id, full_name, email, phone, total_purchases, active_discount_percent,
            referral_count, referral_code, tier, total_spent, pending_balances, created_at
        ) VALUES (
            :id, :full_name, :email, :phone, :total_purchases, :active_discount_percent,
            :referral_count, :referral_code, :tier, :total_spent, :pending_balances, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	switch {
	case err == nil:
		return nil
	case postgres.IsUniqueViolation(err, "clients_email_key"):
		return auth.ErrEmailTaken
	case postgres.IsUniqueViolation(err, "clients_referral_code_key"):
		return client.ErrReferralCodeTaken
	}
	return errors.Wrap(err, "insert client")
}

func (r *PGRepository) findOne(ctx context.Context, column, value string) (*model.Client, error) {
	var c model.Client
	err := r.DB.GetContext(ctx, &c, `SELECT * FROM clients WHERE `+column+` = $1 LIMIT 1`, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "select client by %s", column)
	}
	return &c, nil
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	return r.findOne(ctx, "email", email)
}

func (r *PGRepository) FindByReferralCode(ctx context.Context, code string) (*model.Client, error) {
	return r.findOne(ctx, "referral_code", code)
}

func (r *PGRepository) CreateReferral(ctx context.Context, ref *model.Referral) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin referral tx")
	}
	defer tx.Rollback()

	query := `
        INSERT INTO referrals (id, referrer_client_id, referred_email, status, created_at)
        VALUES (:id, :referrer_client_id, :referred_email, :status, :created_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, ref); err != nil {
		return errors.Wrap(err, "insert referral")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE clients SET referral_count = referral_count + 1 WHERE id = $1`, ref.ReferrerClientID); err != nil {
		return errors.Wrap(err, "bump referral count")
	}
	return errors.Wrap(tx.Commit(), "commit referral tx")
}

func (r *PGRepository) ListReferrals(ctx context.Context, referrerID string) ([]model.Referral, error) {
	refs := []model.Referral{}
	query := `SELECT * FROM referrals WHERE referrer_client_id = $1 ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &refs, query, referrerID); err != nil {
		return nil, errors.Wrap(err, "select referrals")
	}
	return refs, nil
}
