package repository

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrate struct {
	upErr      error
	downErr    error
	stepsErr   error
	version    uint
	dirty      bool
	versionErr error
	steps      []int
	closed     bool
}

func (f *fakeMigrate) Up() error   { return f.upErr }
func (f *fakeMigrate) Down() error { return f.downErr }
func (f *fakeMigrate) Steps(n int) error {
	f.steps = append(f.steps, n)
	return f.stepsErr
}
func (f *fakeMigrate) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }
func (f *fakeMigrate) Close() (error, error) {
	f.closed = true
	return nil, nil
}

func TestMigrator_NoChangeIsNotAnError(t *testing.T) {
	fake := &fakeMigrate{upErr: migrate.ErrNoChange, downErr: migrate.ErrNoChange, stepsErr: migrate.ErrNoChange}
	m := &Migrator{m: fake}

	assert.NoError(t, m.Up())
	assert.NoError(t, m.Down())
	assert.NoError(t, m.Steps(-1))
	assert.Equal(t, []int{-1}, fake.steps)
}

func TestMigrator_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	m := &Migrator{m: &fakeMigrate{upErr: boom, downErr: boom, stepsErr: boom, versionErr: boom}}

	assert.ErrorIs(t, m.Up(), boom)
	assert.ErrorIs(t, m.Down(), boom)
	assert.ErrorIs(t, m.Steps(1), boom)

	_, _, err := m.Version()
	assert.ErrorIs(t, err, boom)
}

func TestMigrator_VersionNilIsZero(t *testing.T) {
	m := &Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
}

func TestMigrator_Close(t *testing.T) {
	fake := &fakeMigrate{}
	m := &Migrator{m: fake}

	require.NoError(t, m.Close())
	assert.True(t, fake.closed)
}

func TestToPgx5URL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{"postgresql://u:p@localhost/db?sslmode=disable", "pgx5://u:p@localhost/db?sslmode=disable"},
		{"pgx5://u:p@localhost/db", "pgx5://u:p@localhost/db"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toPgx5URL(tt.in), "input %q", tt.in)
	}
}

func TestEmbeddedMigrations_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}

	assert.Equal(t, ups, downs, "every up migration needs a down migration")

	schema, err := fs.ReadFile(migrationsFS, "migrations/000001_identities.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "UNIQUE (email)")
}
