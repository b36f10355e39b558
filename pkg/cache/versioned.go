package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Generations scopes cache keys under a generation id that writers replace on every change.
// A reader that loaded data before a write can then only fill a generation nobody reads again.
type Generations struct {
	store      Store
	versionKey string
}

func NewGenerations(store Store, versionKey string) *Generations {
	return &Generations{store: store, versionKey: versionKey}
}

// Key returns key scoped to the current generation. The generation id never expires; a missing
// one reads as "0".
func (g *Generations) Key(ctx context.Context, key string) (string, error) {
	var gen string
	err := g.store.GetJSON(ctx, g.versionKey, &gen)
	if errors.Is(err, ErrCacheMiss) {
		gen = "0"
	} else if err != nil {
		return "", err
	}
	return key + "@" + gen, nil
}

// Bump starts a new generation.
func (g *Generations) Bump(ctx context.Context) error {
	return g.store.SetJSON(ctx, g.versionKey, uuid.New().String(), 0)
}
