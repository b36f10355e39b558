package order

import (
	"context"
	"errors"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/order/dto"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
	"github.com/fekuna/amigurumi-order-service/pkg/search"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrTrackingCodeTaken = errors.New("tracking code already issued")
	ErrTrackingCodeSpace = errors.New("could not allocate a free tracking code")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidPayment    = errors.New("payment must be positive and not exceed the balance due")
	ErrOrderBusy         = errors.New("order is being updated, try again")
)

type UseCase interface {
	Quote(ctx context.Context, sel pricing.Selection, choice model.PaymentChoice) (*pricing.Quote, error)
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.CreateOrderResult, error)

	GetOrder(ctx context.Context, id string) (*model.Order, error)
	FindByTrackingCode(ctx context.Context, code string) (*model.Order, error)
	FindByClientEmail(ctx context.Context, email string) ([]model.Order, error)
	ResolveRequesterContext(ctx context.Context, o *model.Order) (*dto.RequesterContext, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	SearchOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	RecordPayment(ctx context.Context, id string, amount int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, next model.OrderStatus) (*model.Order, error)
	SetFulfillment(ctx context.Context, input *dto.FulfillmentInput) (*model.Order, error)
}

// CatalogSource provides the current inventory catalog for pricing.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*pricing.Catalog, error)
}

type ConfigSource interface {
	Get(ctx context.Context) (model.GlobalConfig, error)
}

// ClientDirectory resolves registered clients for order lookups.
type ClientDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	ListReferrals(ctx context.Context, clientID string) ([]model.Referral, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// SearchIndex is the read side of the order search projection.
type SearchIndex interface {
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}

const SearchIndexName = "orders"
