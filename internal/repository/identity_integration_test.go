//go:build integration

package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pathmuseum/museum/internal/repository"
	"github.com/pathmuseum/museum/internal/testutil"
)

func newIdentityTestRepo(t *testing.T) (context.Context, *repository.Repository) {
	t.Helper()
	ctx, _, dbURL := newMigrationTestEnv(t)

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("repository.New: %v", err)
	}
	t.Cleanup(repo.Close)

	return ctx, repo
}

func TestIntegrationIdentity_CreateAndFind(t *testing.T) {
	ctx, repo := newIdentityTestRepo(t)
	email := testutil.UniqueEmail(t, "create")

	created, err := repo.CreateIdentity(ctx, email, "hash")
	if err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}

	found, err := repo.FindIdentityByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindIdentityByEmail: %v", err)
	}
	if found == nil {
		t.Fatal("expected identity, got nil")
	}
	if found.ID != created.ID || found.PasswordHash != "hash" {
		t.Errorf("found = %+v, want id %s", found, created.ID)
	}
	if !found.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", found.CreatedAt, created.CreatedAt)
	}
}

func TestIntegrationIdentity_FindMiss(t *testing.T) {
	ctx, repo := newIdentityTestRepo(t)

	found, err := repo.FindIdentityByEmail(ctx, "nobody@museum.test")
	if err != nil {
		t.Fatalf("FindIdentityByEmail: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil, got %+v", found)
	}
}

func TestIntegrationIdentity_ConcurrentCreateOneWinner(t *testing.T) {
	ctx, repo := newIdentityTestRepo(t)
	email := testutil.UniqueEmail(t, "race")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateIdentity(ctx, email, "hash")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, dups int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrEmailExists):
			dups++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if wins != 1 || dups != workers-1 {
		t.Errorf("wins=%d dups=%d, want 1 and %d", wins, dups, workers-1)
	}
}
