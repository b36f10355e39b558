package catalog

import (
	"context"
	"errors"

	"github.com/fekuna/amigurumi-order-service/internal/catalog/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
)

var (
	ErrInvalidCategory = errors.New("category must be size, packaging or accessory")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrItemNotFound    = errors.New("inventory item not found")
)

type UseCase interface {
	ListItems(ctx context.Context, category model.ItemCategory) ([]model.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*model.InventoryItem, error)
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	// Snapshot returns the whole catalog indexed for pricing.
	Snapshot(ctx context.Context) (*pricing.Catalog, error)
}
