package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_JSONRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.SetJSON(ctx, "catalog:list:all", []string{"a", "b"}, time.Minute))

	var got []string
	require.NoError(t, m.GetJSON(ctx, "catalog:list:all", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, m.GetJSON(ctx, "catalog:list:all", &got), ErrCacheMiss)
}

func TestMemory_DeletePattern(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SetJSON(ctx, "catalog:list:size", 1, 0))
	require.NoError(t, m.SetJSON(ctx, "catalog:list:all", 1, 0))
	require.NoError(t, m.SetJSON(ctx, "settings:global", 1, 0))

	require.NoError(t, m.DeletePattern(ctx, "catalog:list:*"))

	var v int
	assert.ErrorIs(t, m.GetJSON(ctx, "catalog:list:size", &v), ErrCacheMiss)
	assert.ErrorIs(t, m.GetJSON(ctx, "catalog:list:all", &v), ErrCacheMiss)
	assert.NoError(t, m.GetJSON(ctx, "settings:global", &v))
}

func TestMemory_Lock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.AcquireLock(ctx, "lock:order:1", "a", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.AcquireLock(ctx, "lock:order:1", "b", time.Second)
	assert.False(t, ok)

	require.NoError(t, m.ReleaseLock(ctx, "lock:order:1", "b"))
	ok, _ = m.AcquireLock(ctx, "lock:order:1", "b", time.Second)
	assert.False(t, ok, "release by a non-holder must not free the lock")

	require.NoError(t, m.ReleaseLock(ctx, "lock:order:1", "a"))
	ok, _ = m.AcquireLock(ctx, "lock:order:1", "b", time.Second)
	assert.True(t, ok)
}

func TestGenerationsBumpHidesOlderEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	gens := NewGenerations(store, "settings:version")

	oldKey, err := gens.Key(ctx, "settings:global")
	require.NoError(t, err)
	assert.Equal(t, "settings:global@0", oldKey)

	require.NoError(t, gens.Bump(ctx))
	newKey, err := gens.Key(ctx, "settings:global")
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, newKey)

	// A slow reader writes what it loaded before the bump under the old generation.
	require.NoError(t, store.SetJSON(ctx, oldKey, "stale", time.Minute))

	var got string
	assert.ErrorIs(t, store.GetJSON(ctx, newKey, &got), ErrCacheMiss)
}
