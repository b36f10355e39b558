package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Get(ctx context.Context) (*model.GlobalConfig, error) {
	var cfg model.GlobalConfig
	query := `
        SELECT full_payment_threshold, fixed_partial_amount, referral_discount_percent, updated_at
        FROM global_config
        WHERE id = 1
    `
	if err := r.DB.GetContext(ctx, &cfg, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select global config")
	}
	return &cfg, nil
}

func (r *PGRepository) Upsert(ctx context.Context, cfg *model.GlobalConfig) error {
	query := `
        INSERT INTO global_config (id, full_payment_threshold, fixed_partial_amount, referral_discount_percent, updated_at)
        VALUES (1, :full_payment_threshold, :fixed_partial_amount, :referral_discount_percent, :updated_at)
        ON CONFLICT (id) DO UPDATE
        SET full_payment_threshold = EXCLUDED.full_payment_threshold,
            fixed_partial_amount = EXCLUDED.fixed_partial_amount,
            referral_discount_percent = EXCLUDED.referral_discount_percent,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, cfg)
	return errors.Wrap(err, "upsert global config")
}
