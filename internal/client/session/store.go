package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
)

const (
	TokenKey = "access_token"
	UserKey  = "user"
)

// ErrIncomplete is returned by Load when the store holds only part of a
// session or a user record that cannot be decoded.
var ErrIncomplete = errors.New("persisted session is incomplete")

// Store persists the session across restarts. Load reports (zero, false, nil)
// when nothing is stored.
type Store interface {
	Load(ctx context.Context) (token string, user models.UserProfile, ok bool, err error)
	Save(ctx context.Context, token string, user models.UserProfile) error
	Clear(ctx context.Context) error
}

// SQLStore keeps the session in the local kv table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) (string, models.UserProfile, bool, error) {
	repo := kv.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, TokenKey)
	if err != nil {
		return "", models.UserProfile{}, false, err
	}
	rawUser, err := repo.Get(ctx, UserKey)
	if err != nil {
		return "", models.UserProfile{}, false, err
	}

	return decode(token, rawUser)
}

// Save writes both keys in one transaction.
func (s *SQLStore) Save(ctx context.Context, token string, user models.UserProfile) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, UserKey, rawUser)
	})
}

// Clear wipes the whole table, not just the session keys.
func (s *SQLStore) Clear(ctx context.Context) error {
	return kv.NewSQLiteRepository(s.db).Clear(ctx)
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (m *MemoryStore) Load(ctx context.Context) (string, models.UserProfile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decode(m.values[TokenKey], m.values[UserKey])
}

func (m *MemoryStore) Save(ctx context.Context, token string, user models.UserProfile) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[TokenKey] = []byte(token)
	m.values[UserKey] = rawUser
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}

// Set writes a raw key, bypassing the both-or-neither rule. Tests use it to
// simulate a damaged store.
func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Len reports how many keys are stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

func decode(token, rawUser []byte) (string, models.UserProfile, bool, error) {
	if len(token) == 0 && len(rawUser) == 0 {
		return "", models.UserProfile{}, false, nil
	}
	if len(token) == 0 || len(rawUser) == 0 {
		return "", models.UserProfile{}, false, ErrIncomplete
	}

	var user models.UserProfile
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return "", models.UserProfile{}, false, fmt.Errorf("%w: %v", ErrIncomplete, err)
	}
	if user.ID == "" {
		return "", models.UserProfile{}, false, ErrIncomplete
	}
	return string(token), user, true, nil
}
