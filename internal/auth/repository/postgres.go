package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/amigurumi-order-service/internal/auth"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/database/postgres"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

var _ auth.UserRepository = (*PGRepository)(nil)

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, role, email_confirmed, created_at)
        VALUES (:id, :email, :password_hash, :role, :email_confirmed, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, u)
	if postgres.IsUniqueViolation(err, "users_email_key") {
		return auth.ErrEmailTaken
	}
	return errors.Wrap(err, "insert user")
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1 LIMIT 1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select user")
	}
	return &u, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return errors.Wrap(err, "delete user")
}

func (r *PGRepository) ConfirmEmail(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET email_confirmed = TRUE WHERE email = $1`, email)
	return errors.Wrap(err, "confirm email")
}
