package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/pathmuseum/museum/internal/model"
)

// ErrEmailExists is returned when an identity with the same email is
// already stored.
var ErrEmailExists = errors.New("email already exists")

// CreateIdentity inserts a new identity. The UNIQUE constraint on email
// makes the check-and-insert atomic; a duplicate yields ErrEmailExists.
func (r *Repository) CreateIdentity(ctx context.Context, email, passwordHash string) (*model.Identity, error) {
	query := `
		INSERT INTO identities (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	identity := &model.Identity{
		ID:           newIdentityID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return identity, nil
}

// FindIdentityByEmail retrieves an identity by exact email match.
// A miss is not an error: it returns (nil, nil).
func (r *Repository) FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM identities
		WHERE email = $1
	`

	var identity model.Identity
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return &identity, nil
}

func newIdentityID() string {
	return ulid.Make().String()
}
