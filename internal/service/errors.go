package service

import "errors"

// Error kinds returned by AuthService. Match them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("identity already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInfrastructure     = errors.New("infrastructure failure")
)

// User-facing reasons.
const (
	ReasonMissingFields      = "Email and password are required"
	ReasonPasswordTooLong    = "Password is too long"
	ReasonUserExists         = "User already exists"
	ReasonRegistrationFailed = "Registration failed"
	ReasonInvalidCredentials = "Invalid credentials"
	ReasonLoginFailed        = "Login failed"
	ReasonLogoutFailed       = "Logout failed"
)

// AuthError is the only error type returned by AuthService. Reason is safe
// to show to users; Err carries internal detail for logs and is never
// rendered.
type AuthError struct {
	Kind   error
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

// Is reports whether target is the error's Kind.
func (e *AuthError) Is(target error) bool {
	return target == e.Kind
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the user-facing reason carried by err, or fallback when
// err is not an *AuthError.
func ReasonOf(err error, fallback string) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Reason != "" {
		return authErr.Reason
	}
	return fallback
}

func newAuthError(kind error, reason string, cause error) *AuthError {
	return &AuthError{Kind: kind, Reason: reason, Err: cause}
}
