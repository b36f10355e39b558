package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order"
	"github.com/fekuna/amigurumi-order-service/internal/order/dto"
	"github.com/fekuna/amigurumi-order-service/pkg/database/postgres"
)

const trackingCodeConstraint = "orders_tracking_code_key"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, tracking_code, client_email, product_name, description, status, request_date,
            total_amount, amount_paid, balance_due, payment_choice, reference_image_url,
            final_image_url, shipping_tracking_code,
            base_price, packaging_price, accessories_price, discount, updated_at
        ) VALUES (
            :id, :tracking_code, :client_email, :product_name, :description, :status, :request_date,
            :total_amount, :amount_paid, :balance_due, :payment_choice, :reference_image_url,
            :final_image_url, :shipping_tracking_code,
            :base_price, :packaging_price, :accessories_price, :discount, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err, trackingCodeConstraint) {
		return order.ErrTrackingCodeTaken
	}
	return errors.Wrap(err, "insert order")
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET amount_paid = :amount_paid,
            balance_due = :balance_due,
            status = :status,
            final_image_url = :final_image_url,
            shipping_tracking_code = :shipping_tracking_code,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, o)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (r *PGRepository) getOne(ctx context.Context, query string, args ...interface{}) (*model.Order, error) {
	var o model.Order
	if err := r.DB.GetContext(ctx, &o, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select order")
	}
	return &o, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByTrackingCode(ctx context.Context, code string) (*model.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE tracking_code = $1 ORDER BY request_date ASC LIMIT 1`, code)
}

func (r *PGRepository) FindByClientEmail(ctx context.Context, email string) ([]model.Order, error) {
	orders := []model.Order{}
	query := `SELECT * FROM orders WHERE client_email = $1 ORDER BY request_date DESC`
	if err := r.DB.SelectContext(ctx, &orders, query, email); err != nil {
		return nil, errors.Wrap(err, "select client orders")
	}
	return orders, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ClientEmail != "" {
		conditions = append(conditions, "client_email = :client_email")
		args["client_email"] = f.ClientEmail
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(product_name ILIKE :q OR description ILIKE :q OR client_email ILIKE :q OR tracking_code = :code)")
		args["q"] = "%" + f.SearchQuery + "%"
		args["code"] = f.SearchQuery
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM orders" + whereClause
	nstmt, err := r.DB.PrepareNamedContext(ctx, countQuery)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare order count")
	}
	defer nstmt.Close()

	var total int
	if err := nstmt.GetContext(ctx, &total, args); err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	args["limit"] = f.PageSize
	args["offset"] = (f.Page - 1) * f.PageSize
	query := fmt.Sprintf("SELECT * FROM orders%s ORDER BY request_date DESC LIMIT :limit OFFSET :offset", whereClause)

	listStmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare order list")
	}
	defer listStmt.Close()

	orders := []model.Order{}
	if err := listStmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, errors.Wrap(err, "select orders")
	}
	return orders, total, nil
}
