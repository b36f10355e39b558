package catalog

import (
	"context"

	"github.com/fekuna/amigurumi-order-service/internal/catalog/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, error)
}
