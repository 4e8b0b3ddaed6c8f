package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pathmuseum/museum/internal/model"
	"github.com/pathmuseum/museum/internal/repository"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetIdentitiesSchema rolls every migration back and reapplies them,
// leaving an empty identities table.
func ResetIdentitiesSchema(databaseURL string) error {
	m, err := repository.NewMigrator(databaseURL, nil)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil {
		return err
	}
	return m.Up()
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// UniqueEmail returns a normalized email address that will not collide
// with other tests sharing a database.
func UniqueEmail(t testing.TB, prefix string) string {
	t.Helper()
	return fmt.Sprintf("%s-%d@museum.test", strings.ToLower(prefix), time.Now().UnixNano())
}

// NewTestIdentity creates an identity with sensible defaults. The hash is a
// placeholder and will not verify against any password.
func NewTestIdentity(t testing.TB, email string) *model.Identity {
	t.Helper()
	return &model.Identity{
		ID:           fmt.Sprintf("identity-%d", time.Now().UnixNano()),
		Email:        email,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
		CreatedAt:    time.Now().UTC(),
	}
}
