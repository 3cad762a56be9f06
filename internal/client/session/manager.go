// Package session holds who is logged in. The session (bearer token plus
// the user's profile) is set and cleared as a unit, persisted through a Store
// and broadcast to subscribers on every login and logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = fmt.Errorf("%w: token and user id are required", models.ErrValidation)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Token string
	User  *models.UserProfile
}

func (s Snapshot) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

type Listener func(Snapshot)

type Manager struct {
	store  Store
	logger logging.Logger

	mu      sync.RWMutex
	token   string
	user    *models.UserProfile
	nextID  int
	watches map[int]Listener
}

func NewManager(store Store, logger logging.Logger) *Manager {
	return &Manager{
		store:   store,
		logger:  logger,
		watches: map[int]Listener{},
	}
}

// Hydrate reads the persisted session once at startup. A store holding only
// part of a session is wiped and the session starts absent.
func (m *Manager) Hydrate(ctx context.Context) error {
	token, user, ok, err := m.store.Load(ctx)
	if errors.Is(err, ErrIncomplete) {
		m.logger.Warn(ctx, "discarding incomplete persisted session", "error", err)
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			return fmt.Errorf("failed to wipe session store: %w", clearErr)
		}
		ok, err = false, nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	m.mu.Lock()
	if ok {
		m.token, m.user = token, &user
	} else {
		m.token, m.user = "", nil
	}
	m.mu.Unlock()

	if ok {
		m.logger.Debug(ctx, "session restored", "user_id", user.ID)
	}
	return nil
}

// Login persists token and user, then makes them current.
func (m *Manager) Login(ctx context.Context, token string, user models.UserProfile) error {
	if token == "" || user.ID == "" {
		return ErrInvalidSession
	}

	if err := m.store.Save(ctx, token, user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.token, m.user = token, &user
	m.mu.Unlock()

	m.logger.Info(ctx, "logged in", "user_id", user.ID)
	m.broadcast()
	return nil
}

// Logout wipes the store and resets the in-memory session. The in-memory
// session is cleared even when the store cannot be wiped.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)

	m.mu.Lock()
	m.token, m.user = "", nil
	m.mu.Unlock()

	m.broadcast()
	if err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	m.logger.Info(ctx, "logged out")
	return nil
}

func (m *Manager) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{Token: m.token}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *Manager) Authenticated() bool {
	return m.Current().Authenticated()
}

// Token is read by the API client on every authorized call.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers fn for session transitions and returns a function that
// removes it. Listeners run synchronously after the state has changed.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watches[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.watches, id)
		m.mu.Unlock()
	}
}

func (m *Manager) broadcast() {
	m.mu.RLock()
	snap := m.snapshotLocked()
	listeners := make([]Listener, 0, len(m.watches))
	for _, fn := range m.watches {
		listeners = append(listeners, fn)
	}
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// TokenInfo is what can be read out of a JWT bearer token without the
// signing key. It is informational only.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenClaims decodes the current token's claims without verifying the
// signature. ok is false when there is no session or the token is not a JWT.
func (m *Manager) TokenClaims() (info TokenInfo, ok bool) {
	token := m.Token()
	if token == "" {
		return TokenInfo{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, false
	}

	info.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
