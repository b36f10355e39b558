package cache

import (
	"context"
	"time"
)

// Store is the cache-aside surface used by usecases. RedisClient and Memory implement it.
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

var (
	_ Store  = (*RedisClient)(nil)
	_ Locker = (*RedisClient)(nil)
	_ Store  = (*Memory)(nil)
	_ Locker = (*Memory)(nil)
)
