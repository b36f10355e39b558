package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
)

const sessionKeyPrefix = "session:"

// CacheSessionStore keeps sessions in a cache.Store (Redis in production) with a TTL that
// matches the session expiry.
type CacheSessionStore struct {
	store cache.Store
}

func NewCacheSessionStore(store cache.Store) *CacheSessionStore {
	return &CacheSessionStore{store: store}
}

func (c *CacheSessionStore) Save(ctx context.Context, s *model.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return c.store.SetJSON(ctx, sessionKeyPrefix+s.Token, s, ttl)
}

func (c *CacheSessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := c.store.GetJSON(ctx, sessionKeyPrefix+token, &s)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (c *CacheSessionStore) Delete(ctx context.Context, token string) error {
	return c.store.Delete(ctx, sessionKeyPrefix+token)
}
