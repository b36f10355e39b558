package order

import (
	"context"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order/dto"
)

type Repository interface {
	// Create returns ErrTrackingCodeTaken when the tracking code is already stored.
	Create(ctx context.Context, o *model.Order) error
	// Update stores the admin-mutable fields: payment, status and fulfillment.
	Update(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByTrackingCode(ctx context.Context, code string) (*model.Order, error)
	FindByClientEmail(ctx context.Context, email string) ([]model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
}
