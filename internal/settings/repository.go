package settings

import (
	"context"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type Repository interface {
	// Get returns nil, nil while no configuration has been stored yet.
	Get(ctx context.Context) (*model.GlobalConfig, error)
	Upsert(ctx context.Context, cfg *model.GlobalConfig) error
}
