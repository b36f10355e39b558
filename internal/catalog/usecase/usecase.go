package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/internal/catalog"
	"github.com/fekuna/amigurumi-order-service/internal/catalog/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

const (
	cachePattern = "catalog:list:*"
	versionKey   = "catalog:version"
	cacheTTL     = 5 * time.Minute
)

type catalogUseCase struct {
	repo   catalog.Repository
	cache  cache.Store
	gens   *cache.Generations
	logger logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, store cache.Store, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  store,
		gens:   cache.NewGenerations(store, versionKey),
		logger: log,
	}
}

func (uc *catalogUseCase) ListItems(ctx context.Context, category model.ItemCategory) ([]model.InventoryItem, error) {
	if category != "" && !category.Valid() {
		return nil, catalog.ErrInvalidCategory
	}

	cacheKey, err := uc.gens.Key(ctx, generateCacheKey(category))
	if err == nil {
		var cached []model.InventoryItem
		err = uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return cached, nil
		}
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		uc.logger.Warn("catalog cache read failed", zap.String("key", cacheKey), zap.Error(err))
	}

	items, err := uc.repo.FindAll(ctx, &dto.ItemFilters{Category: category})
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, items, cacheTTL); err != nil {
			uc.logger.Warn("catalog cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return items, nil
}

func (uc *catalogUseCase) GetItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return uc.repo.FindByID(ctx, id)
}

func (uc *catalogUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error) {
	if err := checkItem(input.Category, input.Price); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &model.InventoryItem{
		ID:        uuid.New().String(),
		Category:  input.Category,
		Label:     input.Label,
		Price:     input.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx)

	uc.logger.Info("inventory item created",
		zap.String("id", item.ID),
		zap.String("category", string(item.Category)),
		zap.Int64("price", item.Price),
	)
	return item, nil
}

func (uc *catalogUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.InventoryItem, error) {
	if err := checkItem(input.Category, input.Price); err != nil {
		return nil, err
	}

	item, err := uc.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, catalog.ErrItemNotFound
	}

	item.Category = input.Category
	item.Label = input.Label
	item.Price = input.Price
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx)
	return item, nil
}

func (uc *catalogUseCase) DeleteItem(ctx context.Context, id string) error {
	item, err := uc.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return catalog.ErrItemNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateCache(ctx)
	return nil
}

func (uc *catalogUseCase) Snapshot(ctx context.Context) (*pricing.Catalog, error) {
	items, err := uc.ListItems(ctx, "")
	if err != nil {
		return nil, err
	}
	return pricing.NewCatalog(items), nil
}

// invalidateCache starts a new generation so reads racing the write cannot refill the old one,
// then frees the lists cached so far.
func (uc *catalogUseCase) invalidateCache(ctx context.Context) {
	if err := uc.gens.Bump(ctx); err != nil {
		uc.logger.Error("failed to invalidate catalog cache", zap.Error(err))
	}
	if err := uc.cache.DeletePattern(ctx, cachePattern); err != nil {
		uc.logger.Warn("failed to drop old catalog lists", zap.Error(err))
	}
}

func generateCacheKey(category model.ItemCategory) string {
	if category == "" {
		return "catalog:list:all"
	}
	return fmt.Sprintf("catalog:list:%s", category)
}

func checkItem(category model.ItemCategory, price int64) error {
	if !category.Valid() {
		return catalog.ErrInvalidCategory
	}
	if price < 0 {
		return catalog.ErrNegativePrice
	}
	return nil
}
