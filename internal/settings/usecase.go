package settings

import (
	"context"

	"github.com/fekuna/amigurumi-order-service/internal/model"
)

type UseCase interface {
	Get(ctx context.Context) (model.GlobalConfig, error)
	Update(ctx context.Context, cfg model.GlobalConfig) (model.GlobalConfig, error)
}
