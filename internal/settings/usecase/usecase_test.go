package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

type memRepo struct {
	cfg   *model.GlobalConfig
	reads int
}

func (r *memRepo) Get(context.Context) (*model.GlobalConfig, error) {
	r.reads++
	if r.cfg == nil {
		return nil, nil
	}
	c := *r.cfg
	return &c, nil
}

func (r *memRepo) Upsert(_ context.Context, cfg *model.GlobalConfig) error {
	c := *cfg
	r.cfg = &c
	return nil
}

func TestGetDefaultsWhenMissing(t *testing.T) {
	uc := NewSettingsUseCase(&memRepo{}, cache.NewMemory(), logger.NewNop())

	cfg, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGlobalConfig(), cfg)
}

func TestGetIsCached(t *testing.T) {
	repo := &memRepo{}
	uc := NewSettingsUseCase(repo, cache.NewMemory(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.Get(ctx)
	require.NoError(t, err)
	_, err = uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &memRepo{}
	uc := NewSettingsUseCase(repo, cache.NewMemory(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.Get(ctx)
	require.NoError(t, err)

	_, err = uc.Update(ctx, model.GlobalConfig{FullPaymentThreshold: 90000, FixedPartialAmount: 40000, ReferralDiscountPercent: 5})
	require.NoError(t, err)

	cfg, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), cfg.FullPaymentThreshold)
	assert.Equal(t, int64(40000), cfg.FixedPartialAmount)
	assert.Equal(t, 2, repo.reads)
}

// pausedRepo hands out the row it read, then waits for release before returning it.
type pausedRepo struct {
	*memRepo
	loaded  chan struct{}
	release chan struct{}
}

func (r *pausedRepo) Get(ctx context.Context) (*model.GlobalConfig, error) {
	cfg, err := r.memRepo.Get(ctx)
	if r.loaded != nil {
		close(r.loaded)
		r.loaded = nil
		<-r.release
	}
	return cfg, err
}

func TestSlowReadDoesNotRecacheOldConfig(t *testing.T) {
	ctx := context.Background()
	base := &memRepo{}
	old := model.DefaultGlobalConfig()
	base.cfg = &old

	loaded := make(chan struct{})
	repo := &pausedRepo{memRepo: base, loaded: loaded, release: make(chan struct{})}
	uc := NewSettingsUseCase(repo, cache.NewMemory(), logger.NewNop())

	done := make(chan model.GlobalConfig)
	go func() {
		cfg, err := uc.Get(ctx)
		assert.NoError(t, err)
		done <- cfg
	}()
	<-loaded

	_, err := uc.Update(ctx, model.GlobalConfig{FullPaymentThreshold: 90000, FixedPartialAmount: 40000})
	require.NoError(t, err)

	close(repo.release)
	assert.Equal(t, int64(70000), (<-done).FullPaymentThreshold)

	cfg, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), cfg.FullPaymentThreshold)
}

func TestUpdateRejectsPartialAboveThreshold(t *testing.T) {
	repo := &memRepo{}
	uc := NewSettingsUseCase(repo, cache.NewMemory(), logger.NewNop())

	_, err := uc.Update(context.Background(), model.GlobalConfig{FullPaymentThreshold: 50000, FixedPartialAmount: 50000})
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Nil(t, repo.cfg)
}
