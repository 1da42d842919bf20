// Package session owns the single current identity of a running dashboard
// and answers access questions about it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/performance-dashboard/internal"
	"github.com/frahmantamala/performance-dashboard/internal/core/async"
	"github.com/frahmantamala/performance-dashboard/internal/core/events"
	"github.com/frahmantamala/performance-dashboard/internal/identity"
	"github.com/frahmantamala/performance-dashboard/internal/storage/kv"
	"github.com/frahmantamala/performance-dashboard/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultLatency    = 500 * time.Millisecond
	DefaultStorageKey = "user"
)

// Manager holds the session slot. Login and Register complete after the
// configured latency; every mutation runs to completion under the manager
// lock before the next one starts. Event handlers run while that lock is held
// and must not call back into the Manager.
type Manager struct {
	store      identity.Store
	verifier   CredentialVerifier
	kv         kv.Store
	latency    time.Duration
	storageKey string
	logger     *slog.Logger
	bus        *events.EventBus
	now        func() time.Time

	mu      sync.RWMutex
	current *identity.Identity
}

type Option func(*Manager)

func WithLatency(d time.Duration) Option {
	return func(m *Manager) { m.latency = d }
}

func WithStorageKey(key string) Option {
	return func(m *Manager) { m.storageKey = key }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithEventBus(b *events.EventBus) Option {
	return func(m *Manager) { m.bus = b }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store identity.Store, verifier CredentialVerifier, kvStore kv.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		verifier:   verifier,
		kv:         kvStore,
		latency:    DefaultLatency,
		storageKey: DefaultStorageKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.LoggerWrapper()
	}
	return m
}

// Login resolves to the identity registered under email once the latency has
// elapsed. An unknown email or a rejected password resolves to
// internal.ErrInvalidCredentials and leaves the session as it was.
func (m *Manager) Login(ctx context.Context, email, password string) *async.Future[*identity.Identity] {
	ctx = context.WithoutCancel(ctx)
	return async.After(m.latency, func() (*identity.Identity, error) {
		return m.login(ctx, email, password)
	})
}

func (m *Manager) login(ctx context.Context, email, password string) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		m.logger.Error("identity lookup failed", "email", email, "error", err)
		return nil, internal.NewInternalError("Failed to look up identity", err)
	}
	if found == nil || !m.verifier.Verify(found, password) {
		m.logger.Warn("login rejected", "email", email)
		return nil, internal.ErrInvalidCredentials
	}

	m.setCurrent(ctx, found)
	m.logger.Info("identity logged in", "identity_id", found.ID, "role", found.Role)
	m.publish(ctx, events.NewIdentityLoggedInEvent(found.ID, found.Email, string(found.Role)))

	return found.Clone(), nil
}

// Register creates a level 1 identity from profile and makes it the current
// session. The password is accepted but never stored.
func (m *Manager) Register(ctx context.Context, profile identity.Profile, password string) *async.Future[*identity.Identity] {
	ctx = context.WithoutCancel(ctx)
	return async.After(m.latency, func() (*identity.Identity, error) {
		return m.register(ctx, profile)
	})
}

func (m *Manager) register(ctx context.Context, profile identity.Profile) (*identity.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.FindByEmail(ctx, profile.Email)
	if err != nil {
		m.logger.Error("identity lookup failed", "email", profile.Email, "error", err)
		return nil, internal.NewInternalError("Failed to look up identity", err)
	}
	if existing != nil {
		m.logger.Warn("registration rejected, email taken", "email", profile.Email)
		return nil, internal.ErrEmailAlreadyExists
	}

	created := identity.NewIdentity("user-"+uuid.NewString(), profile, m.now())
	if err := m.store.Create(ctx, created); err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return nil, internal.ErrEmailAlreadyExists
		}
		m.logger.Error("identity create failed", "email", profile.Email, "error", err)
		return nil, internal.NewInternalError("Failed to create identity", err)
	}

	m.setCurrent(ctx, created)
	m.logger.Info("identity registered", "identity_id", created.ID, "role", created.Role)
	m.publish(ctx, events.NewIdentityRegisteredEvent(created.ID, created.Email, string(created.Role)))

	return created.Clone(), nil
}

// Logout clears the session and its persisted copy. It is safe to call with
// no active session.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.current
	m.current = nil
	if err := m.kv.Delete(ctx, m.storageKey); err != nil {
		m.logger.Error("failed to delete persisted session", "key", m.storageKey, "error", err)
	}

	if prev != nil {
		m.logger.Info("identity logged out", "identity_id", prev.ID)
		m.publish(ctx, events.NewIdentityLoggedOutEvent(prev.ID, prev.Email, string(prev.Role)))
	}
}

// HasPermission reports whether the session role ranks at or above required.
// It is false with no session and for an unknown required role.
func (m *Manager) HasPermission(required identity.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return false
	}
	return m.current.Role.AtLeast(required)
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current != nil
}

// Current returns a copy of the session identity.
func (m *Manager) Current() (*identity.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, false
	}
	return m.current.Clone(), true
}

// Restore loads the persisted session. Unreadable records are discarded and
// leave the session empty; only a failing store read is returned.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	data, found, err := m.kv.Get(ctx, m.storageKey)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	restored, reason := decodeSession(data)
	if restored == nil {
		m.logger.Warn("discarding corrupt persisted session", "key", m.storageKey, "reason", reason)
		if err := m.kv.Delete(ctx, m.storageKey); err != nil {
			m.logger.Error("failed to delete persisted session", "key", m.storageKey, "error", err)
		}
		return nil
	}

	m.current = restored
	m.logger.Info("session restored", "identity_id", restored.ID, "role", restored.Role)
	return nil
}

// Refresh replaces the session copy when updated is the session identity,
// keeping the persisted record in step with XP changes.
func (m *Manager) Refresh(ctx context.Context, updated *identity.Identity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || updated == nil || m.current.ID != updated.ID {
		return false
	}
	m.setCurrent(ctx, updated)
	return true
}

// setCurrent must be called with mu held.
func (m *Manager) setCurrent(ctx context.Context, id *identity.Identity) {
	m.current = id.Clone()

	data, err := json.Marshal(m.current)
	if err != nil {
		m.logger.Error("failed to encode session", "identity_id", id.ID, "error", err)
		return
	}
	if err := m.kv.Set(ctx, m.storageKey, data); err != nil {
		m.logger.Error("failed to persist session", "identity_id", id.ID, "error", err)
	}
}

func (m *Manager) publish(ctx context.Context, event events.Event) {
	if err := m.bus.PublishSync(ctx, event); err != nil {
		m.logger.Error("session event handler failed", "event_type", event.EventType(), "error", err)
	}
}

func decodeSession(data []byte) (*identity.Identity, string) {
	var restored identity.Identity
	if err := json.Unmarshal(data, &restored); err != nil {
		return nil, "invalid json"
	}
	if restored.ID == "" {
		return nil, "missing id"
	}
	if !restored.Role.Valid() {
		return nil, "unknown role"
	}
	if restored.Level < 1 || restored.XP < 0 {
		return nil, "invalid progression"
	}
	return &restored, ""
}
