// Package model defines domain entities for the application.
package model

import "time"

// Identity is a registered account. The password hash never leaves the
// server: it is excluded from JSON and must not be logged.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Viewer returns the public snapshot of the identity stored in a session.
func (i *Identity) Viewer() Viewer {
	return Viewer{ID: i.ID, Email: i.Email}
}

// Viewer is the public view of an authenticated identity.
// It is copied into the session at login/signup time and does not follow
// later changes to the Identity.
type Viewer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsAnonymous reports whether the viewer carries no identity.
func (v Viewer) IsAnonymous() bool {
	return v.ID == ""
}
