package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pathmuseum/museum/internal/model"
)

// MemoryStore keeps identities in process memory. It is used when no
// DATABASE_URL is configured and in tests. Contents vanish on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]model.Identity
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]model.Identity)}
}

// CreateIdentity stores a new identity, or returns ErrEmailExists.
func (m *MemoryStore) CreateIdentity(ctx context.Context, email, passwordHash string) (*model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return nil, ErrEmailExists
	}

	identity := model.Identity{
		ID:           newIdentityID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.byEmail[email] = identity

	return &identity, nil
}

// FindIdentityByEmail returns a copy of the stored identity, or (nil, nil).
func (m *MemoryStore) FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	identity, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

// Len returns the number of stored identities.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byEmail)
}
