package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/settings"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

const (
	cacheKey   = "settings:global"
	versionKey = "settings:version"
	cacheTTL   = 5 * time.Minute
)

type settingsUseCase struct {
	repo   settings.Repository
	cache  cache.Store
	gens   *cache.Generations
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, store cache.Store, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:   repo,
		cache:  store,
		gens:   cache.NewGenerations(store, versionKey),
		logger: log,
	}
}

func (uc *settingsUseCase) Get(ctx context.Context) (model.GlobalConfig, error) {
	var cfg model.GlobalConfig
	key, err := uc.gens.Key(ctx, cacheKey)
	if err == nil {
		err = uc.cache.GetJSON(ctx, key, &cfg)
		if err == nil {
			return cfg, nil
		}
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		uc.logger.Warn("settings cache read failed", zap.Error(err))
	}

	stored, err := uc.repo.Get(ctx)
	if err != nil {
		return model.GlobalConfig{}, err
	}
	cfg = model.DefaultGlobalConfig()
	if stored != nil {
		cfg = *stored
	}

	if key != "" {
		if err := uc.cache.SetJSON(ctx, key, cfg, cacheTTL); err != nil {
			uc.logger.Warn("settings cache write failed", zap.Error(err))
		}
	}
	return cfg, nil
}

func (uc *settingsUseCase) Update(ctx context.Context, cfg model.GlobalConfig) (model.GlobalConfig, error) {
	if err := cfg.Validate(); err != nil {
		return model.GlobalConfig{}, err
	}
	cfg.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Upsert(ctx, &cfg); err != nil {
		return model.GlobalConfig{}, err
	}
	if err := uc.gens.Bump(ctx); err != nil {
		uc.logger.Error("failed to invalidate settings cache", zap.Error(err))
	}

	uc.logger.Info("global config updated",
		zap.Int64("full_payment_threshold", cfg.FullPaymentThreshold),
		zap.Int64("fixed_partial_amount", cfg.FixedPartialAmount),
		zap.Int64("referral_discount_percent", cfg.ReferralDiscountPercent),
	)
	return cfg, nil
}
