package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/amigurumi-order-service/internal/catalog/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (id, category, label, price, created_at, updated_at)
        VALUES (:id, :category, :label, :price, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return errors.Wrap(err, "insert inventory item")
}

func (r *PGRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
        UPDATE inventory_items
        SET category = :category,
            label = :label,
            price = :price,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return errors.Wrap(err, "update inventory item")
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = $1", id)
	return errors.Wrap(err, "delete inventory item")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM inventory_items WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select inventory item")
	}
	return &item, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.InventoryItem, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f != nil && f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT * FROM inventory_items" + whereClause + " ORDER BY category, price, label"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "prepare inventory list")
	}
	defer nstmt.Close()

	items := []model.InventoryItem{}
	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, errors.Wrap(err, "select inventory items")
	}
	return items, nil
}
