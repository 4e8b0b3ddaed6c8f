// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/metrics"
	"github.com/pathmuseum/museum/internal/model"
	"github.com/pathmuseum/museum/internal/repository"
)

// CredentialStore persists identities. FindIdentityByEmail returns
// (nil, nil) on a miss; CreateIdentity returns repository.ErrEmailExists
// when the email is taken.
type CredentialStore interface {
	FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)
	CreateIdentity(ctx context.Context, email, passwordHash string) (*model.Identity, error)
}

// SessionManager issues and ends sessions.
type SessionManager interface {
	Establish(ctx context.Context, viewer model.Viewer) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Credentials is the email/password pair submitted by a user.
type Credentials struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Token  string
	Viewer model.Viewer
}

// dummyPassword is hashed once and verified against on unknown emails so
// that a miss costs about as much as a wrong password.
const dummyPassword = "museum-dummy-password"

// AuthService handles signup, login and logout.
type AuthService struct {
	store    CredentialStore
	hasher   auth.Hasher
	sessions SessionManager
	metrics  metrics.Recorder
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(store CredentialStore, hasher auth.Hasher, sessions SessionManager, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:    store,
		hasher:   hasher,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Every lookup and insert goes through it, so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new identity and establishes a session for it.
func (s *AuthService) Signup(ctx context.Context, creds Credentials) (*AuthResult, error) {
	res, err := s.signup(ctx, creds)
	s.metrics.IncSignup(outcomeOf(err))
	return res, err
}

func (s *AuthService) signup(ctx context.Context, creds Credentials) (*AuthResult, error) {
	email := NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, newAuthError(ErrValidation, ReasonMissingFields, nil)
	}

	existing, err := s.store.FindIdentityByEmail(ctx, email)
	if err != nil {
		return nil, s.infraError("signup lookup failed", ReasonRegistrationFailed, err)
	}
	if existing != nil {
		return nil, newAuthError(ErrConflict, ReasonUserExists, nil)
	}

	hash, err := s.hasher.Hash(creds.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, newAuthError(ErrValidation, ReasonPasswordTooLong, err)
	}
	if err != nil {
		return nil, s.infraError("password hashing failed", ReasonRegistrationFailed, err)
	}

	identity, err := s.store.CreateIdentity(ctx, email, hash)
	if errors.Is(err, repository.ErrEmailExists) {
		// Lost a race with a concurrent signup for the same email.
		return nil, newAuthError(ErrConflict, ReasonRegistrationFailed, err)
	}
	if err != nil {
		return nil, s.infraError("identity insert failed", ReasonRegistrationFailed, err)
	}

	viewer := identity.Viewer()
	token, err := s.sessions.Establish(ctx, viewer)
	if err != nil {
		return nil, s.infraError("session establish failed", ReasonRegistrationFailed, err)
	}

	s.logger.Info("identity registered", slog.String("identity_id", identity.ID))
	return &AuthResult{Token: token, Viewer: viewer}, nil
}

// Login verifies credentials and establishes a session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	res, err := s.login(ctx, creds)
	s.metrics.IncLogin(outcomeOf(err))
	return res, err
}

func (s *AuthService) login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	email := NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, newAuthError(ErrValidation, ReasonMissingFields, nil)
	}

	identity, err := s.store.FindIdentityByEmail(ctx, email)
	if err != nil {
		return nil, s.infraError("login lookup failed", ReasonLoginFailed, err)
	}
	if identity == nil {
		s.verifyDummy(creds.Password)
		return nil, newAuthError(ErrInvalidCredentials, ReasonInvalidCredentials, nil)
	}

	ok, err := auth.VerifyPassword(creds.Password, identity.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable",
			slog.String("identity_id", identity.ID),
			slog.Any("error", err),
		)
		return nil, newAuthError(ErrInfrastructure, ReasonLoginFailed, err)
	}
	if !ok {
		return nil, newAuthError(ErrInvalidCredentials, ReasonInvalidCredentials, nil)
	}

	viewer := identity.Viewer()
	token, err := s.sessions.Establish(ctx, viewer)
	if err != nil {
		return nil, s.infraError("session establish failed", ReasonLoginFailed, err)
	}

	return &AuthResult{Token: token, Viewer: viewer}, nil
}

// Logout destroys the session for token. Missing, unknown and expired
// tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	s.metrics.IncLogout()
	return s.DiscardSession(ctx, token)
}

// DiscardSession destroys the session for token without counting a
// logout. Handlers use it to drop the previous session after login.
func (s *AuthService) DiscardSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return s.infraError("session destroy failed", ReasonLogoutFailed, err)
	}
	return nil
}

func (s *AuthService) infraError(msg, reason string, err error) *AuthError {
	s.logger.Error(msg, slog.Any("error", err))
	return newAuthError(ErrInfrastructure, reason, err)
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("dummy hash unavailable", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = auth.VerifyPassword(password, s.dummyHash)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}
