// Package session holds authenticated sessions behind an explicit store
// handle. Handlers receive a *Manager; nothing here is global.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

// Namespace tags every persisted session row.
const Namespace = "lapin-auth"

var (
	ErrNotFound        = errors.New("session not found")
	ErrExpired         = errors.New("session expired")
	ErrStale           = errors.New("session was modified concurrently")
	ErrUnknownDemoRole = errors.New("unknown demo role")
)

// Session is a logged-in user plus the opaque token forwarded to the
// remote API. Version increases on every write.
type Session struct {
	ID        string       `json:"id"`
	User      *domain.User `json:"user"`
	Token     string       `json:"-"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions. CompareAndSwap replaces the stored session only
// when its version equals expected and returns the written value.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	CompareAndSwap(ctx context.Context, s Session, expected int64) (Session, error)
}

var demoUsers = map[string]domain.User{
	"admin": {ID: "1", Name: "中山社長", Role: domain.RoleAdmin, Email: "nakayama@example.com", Status: domain.UserActive},
	"staff": {ID: "2", Name: "事務太郎", Role: domain.RoleOffice, Email: "jimu@example.com", Status: domain.UserActive},
	"sales": {ID: "3", Name: "山田太郎", Role: domain.RoleSales, Email: "yamada@example.com", Status: domain.UserActive},
}

// DemoRoles lists the roles accepted by LoginAsDemo.
var DemoRoles = []string{"admin", "staff", "sales"}

// DemoUser returns the fixed demo account for role and its token.
func DemoUser(role string) (domain.User, string, bool) {
	u, ok := demoUsers[role]
	if !ok {
		return domain.User{}, "", false
	}
	return u, "demo_token_" + role, true
}

type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

func NewManager(store Store, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login starts a new session for user.
func (m *Manager) Login(ctx context.Context, user domain.User, token string) (Session, error) {
	if user.Status == "" {
		user.Status = domain.UserActive
	}
	now := m.now()
	s := Session{
		ID:        m.newID(),
		User:      &user,
		Token:     token,
		Version:   1,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		s.ExpiresAt = now.Add(m.ttl)
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (m *Manager) LoginAsDemo(ctx context.Context, role string) (Session, error) {
	user, token, ok := DemoUser(role)
	if !ok {
		return Session{}, ErrUnknownDemoRole
	}
	return m.Login(ctx, user, token)
}

// Logout removes the session. Unknown ids are not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	err := m.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Hydrate loads a live session. Expired sessions are removed and reported
// as ErrExpired.
func (m *Manager) Hydrate(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return Session{}, ErrExpired
	}
	return s, nil
}

// UpdateUser applies fn to the session user if the caller saw version.
// A writer holding an older version gets ErrStale and nothing is written.
func (m *Manager) UpdateUser(ctx context.Context, id string, version int64, fn func(*domain.User)) (Session, error) {
	s, err := m.Hydrate(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.Version != version {
		return Session{}, ErrStale
	}
	if s.User == nil {
		return Session{}, ErrNotFound
	}
	u := *s.User
	fn(&u)
	s.User = &u
	return m.store.CompareAndSwap(ctx, s, version)
}
