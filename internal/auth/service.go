package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/pkg/logger"
)

const (
	minPasswordLength = 8
	defaultLocalTTL   = 5 * time.Second
)

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

type Event struct {
	Type    EventType
	Session *model.Session
}

type cachedSession struct {
	session  *model.Session
	cachedAt time.Time
}

// Service is the single place where sessions change. Reads go through a short-lived local
// cache in front of the SessionStore; writes always hit the store first.
type Service struct {
	users    UserRepository
	sessions SessionStore
	ttl      time.Duration
	localTTL time.Duration
	logger   logger.ZapLogger
	now      func() time.Time

	mu        sync.Mutex
	local     map[string]cachedSession
	lastPrune time.Time

	subMu       sync.RWMutex
	nextSubID   int
	subscribers map[int]func(Event)
}

func NewService(users UserRepository, sessions SessionStore, ttl time.Duration, log logger.ZapLogger) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		ttl:         ttl,
		localTTL:    defaultLocalTTL,
		logger:      log,
		now:         time.Now,
		local:       make(map[string]cachedSession),
		subscribers: make(map[int]func(Event)),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, password string, role model.Role) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if role == "" {
		role = model.RoleClient
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	sess := &model.Session{
		Token:     uuid.New().String(),
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.remember(sess)
	s.publish(Event{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// GetSession returns the session for token, or nil when it does not exist or has expired.
func (s *Service) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}
	s.mu.Lock()
	c, ok := s.local[token]
	s.mu.Unlock()
	if ok && s.now().Sub(c.cachedAt) < s.localTTL && s.now().Before(c.session.ExpiresAt) {
		return c.session, nil
	}
	return s.Refresh(ctx, token)
}

// Refresh reads the authoritative store and reconciles the local cache with it.
func (s *Service) Refresh(ctx context.Context, token string) (*model.Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || !s.now().Before(sess.ExpiresAt) {
		s.forget(token)
		return nil, nil
	}
	s.remember(sess)
	return sess, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	sess, _ := s.GetSession(ctx, token)
	s.forget(token)
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	if sess != nil {
		s.publish(Event{Type: EventSignedOut, Session: sess})
	}
	return nil
}

// DeleteUser removes a login account. Sessions already issued for it expire on their own.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *Service) ConfirmEmail(ctx context.Context, email string) error {
	return s.users.ConfirmEmail(ctx, normalizeEmail(email))
}

// Subscribe registers fn for sign-in and sign-out notifications. The returned func removes it.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Service) publish(e Event) {
	s.subMu.RLock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
	s.logger.Debug("auth state changed", zap.String("event", string(e.Type)), zap.String("email", e.Session.Email))
}

// remember caches sess locally and, at most once per local window, drops entries that can no
// longer be served.
func (s *Service) remember(sess *model.Session) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastPrune) >= s.localTTL {
		for token, c := range s.local {
			if now.Sub(c.cachedAt) >= s.localTTL || !now.Before(c.session.ExpiresAt) {
				delete(s.local, token)
			}
		}
		s.lastPrune = now
	}
	s.local[sess.Token] = cachedSession{session: sess, cachedAt: now}
}

func (s *Service) forget(token string) {
	s.mu.Lock()
	delete(s.local, token)
	s.mu.Unlock()
}
