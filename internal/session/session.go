// Package session binds authenticated viewers to opaque, server-side
// session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/model"
)

// DefaultTTL is the session lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// ErrAnonymousViewer is returned when establishing a session for a viewer
// without an identity.
var ErrAnonymousViewer = errors.New("cannot establish session for anonymous viewer")

// Record is what a Store keeps for one live session.
type Record struct {
	Viewer    model.Viewer `json:"viewer"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ExpiredAt reports whether the record is no longer valid at t.
func (r *Record) ExpiredAt(t time.Time) bool {
	return !t.Before(r.ExpiresAt)
}

// Store persists session records under an opaque key.
// Get returns (nil, nil) when no record exists.
type Store interface {
	Put(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, key string) (*Record, error)
	Delete(ctx context.Context, key string) error
}

// Manager issues, resolves and destroys sessions.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager. A non-positive ttl falls back to DefaultTTL.
func NewManager(store Store, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Establish creates a session for the viewer and returns its token.
// Only the token's digest is handed to the store.
func (m *Manager) Establish(ctx context.Context, viewer model.Viewer) (string, error) {
	if viewer.IsAnonymous() {
		return "", ErrAnonymousViewer
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	rec := Record{
		Viewer:    viewer,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Put(ctx, auth.HashSessionToken(token), rec, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Resolve returns the viewer bound to token. It never fails: malformed,
// unknown and expired tokens, as well as store errors, resolve to an
// anonymous viewer and false.
func (m *Manager) Resolve(ctx context.Context, token string) (model.Viewer, bool) {
	if !auth.ValidateSessionToken(token) {
		return model.Viewer{}, false
	}

	key := auth.HashSessionToken(token)
	rec, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn("session lookup failed", slog.Any("error", err))
		return model.Viewer{}, false
	}
	if rec == nil {
		return model.Viewer{}, false
	}

	if rec.ExpiredAt(m.now()) {
		if err := m.store.Delete(ctx, key); err != nil {
			m.logger.Debug("expired session cleanup failed", slog.Any("error", err))
		}
		return model.Viewer{}, false
	}

	return rec.Viewer, true
}

// Destroy ends the session for token. Unknown, expired and malformed
// tokens are not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if !auth.ValidateSessionToken(token) {
		return nil
	}
	if err := m.store.Delete(ctx, auth.HashSessionToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
