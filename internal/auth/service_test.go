package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/cache"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (m *memUserRepo) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrEmailTaken
	}
	clone := *u
	m.users[u.Email] = &clone
	return nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.users {
		if u.ID == id {
			delete(m.users, email)
		}
	}
	return nil
}

func (m *memUserRepo) ConfirmEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		u.EmailConfirmed = true
	}
	return nil
}

func setup(t *testing.T) (*Service, *CacheSessionStore) {
	t.Helper()
	store := NewCacheSessionStore(cache.NewMemory())
	svc := NewService(&memUserRepo{users: map[string]*model.User{}}, store, time.Hour, logger.NewNop())
	return svc, store
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	_, err := svc.SignUp(ctx, "Ana@Example.com ", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	id, err := svc.SignUp(ctx, "Ana@Example.com ", "tejiendo123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = svc.SignUp(ctx, "ana@example.com", "tejiendo123", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignIn(ctx, "ana@example.com", "tejiendo123")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)

	require.NoError(t, svc.ConfirmEmail(ctx, "ANA@example.com"))

	_, err = svc.SignIn(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@example.com", "tejiendo123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := svc.SignIn(ctx, "ana@example.com", "tejiendo123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", sess.Email)
	assert.Equal(t, model.RoleClient, sess.Role)
	assert.Equal(t, id, sess.UserID)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	var events []EventType
	unsubscribe := svc.Subscribe(func(e Event) { events = append(events, e.Type) })

	_, err := svc.SignUp(ctx, "admin@example.com", "administrar", model.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmEmail(ctx, "admin@example.com"))

	sess, err := svc.SignIn(ctx, "admin@example.com", "administrar")
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())

	got, err := svc.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.UserID, got.UserID)

	require.NoError(t, svc.SignOut(ctx, sess.Token))

	got, err = svc.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	stored, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, stored)

	assert.Equal(t, []EventType{EventSignedIn, EventSignedOut}, events)

	unsubscribe()
	_, err = svc.SignIn(ctx, "admin@example.com", "administrar")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRefreshReconcilesLocalCache(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	_, err := svc.SignUp(ctx, "ana@example.com", "tejiendo123", "")
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmEmail(ctx, "ana@example.com"))
	sess, err := svc.SignIn(ctx, "ana@example.com", "tejiendo123")
	require.NoError(t, err)

	// Another instance signs the session out directly in the authoritative store.
	require.NoError(t, store.Delete(ctx, sess.Token))

	cached, err := svc.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.NotNil(t, cached, "local cache still answers inside its window")

	fresh, err := svc.Refresh(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, fresh)

	again, err := svc.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, again, "refresh dropped the stale local entry")
}

func TestLocalCacheDropsStaleEntries(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	clock := time.Now()
	svc.now = func() time.Time { return clock }

	for _, email := range []string{"ana@example.com", "bea@example.com", "caro@example.com"} {
		_, err := svc.SignUp(ctx, email, "tejiendo123", "")
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmEmail(ctx, email))
	}

	first, err := svc.SignIn(ctx, "ana@example.com", "tejiendo123")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "bea@example.com", "tejiendo123")
	require.NoError(t, err)
	assert.Len(t, svc.local, 2)

	clock = clock.Add(defaultLocalTTL)
	third, err := svc.SignIn(ctx, "caro@example.com", "tejiendo123")
	require.NoError(t, err)

	assert.Len(t, svc.local, 1)
	assert.Contains(t, svc.local, third.Token)

	got, err := svc.GetSession(ctx, first.Token)
	require.NoError(t, err)
	require.NotNil(t, got, "pruned sessions are still served from the store")
	assert.Equal(t, first.UserID, got.UserID)
}

func TestDeleteUserFreesEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	id, err := svc.SignUp(ctx, "ana@example.com", "tejiendo123", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(ctx, id))

	_, err = svc.SignUp(ctx, "ana@example.com", "tejiendo123", "")
	assert.NoError(t, err)
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()

	_, err := RequireAdmin(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = RequireAdmin(WithSession(ctx, &model.Session{Role: model.RoleClient}))
	assert.ErrorIs(t, err, ErrForbidden)

	s, err := RequireAdmin(WithSession(ctx, &model.Session{Role: model.RoleAdmin, Email: "admin@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", s.Email)
}
