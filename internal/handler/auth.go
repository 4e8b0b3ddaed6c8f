package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/handler/dto"
	"github.com/pathmuseum/museum/internal/service"
	"github.com/pathmuseum/museum/internal/view"
)

const reasonMalformedBody = "Invalid request body"

type authenticateFunc func(ctx context.Context, creds service.Credentials) (*service.AuthResult, error)

// LoginForm renders an empty login form.
// GET /login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuthForm(w, r, http.StatusOK, view.PageLogin, "", "")
}

// SignupForm renders an empty signup form.
// GET /signup
func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuthForm(w, r, http.StatusOK, view.PageSignup, "", "")
}

// Signup registers an identity and starts a session.
// POST /signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, view.PageSignup, service.ReasonRegistrationFailed, h.auth.Signup)
}

// Login verifies credentials and starts a session.
// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, view.PageLogin, service.ReasonLoginFailed, h.auth.Login)
}

// Logout ends the current session and clears the cookie. The redirect
// happens even when the session store fails.
// POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), auth.SessionTokenFromContext(r.Context())); err != nil {
		h.logger.Warn("logout failed",
			slog.String("request_id", requestID(r)),
			slog.Any("error", err),
		)
	}

	h.cookies.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, page, fallback string, fn authenticateFunc) {
	req, err := dto.DecodeCredentials(r)
	if err != nil {
		h.renderAuthForm(w, r, http.StatusBadRequest, page, reasonMalformedBody, "")
		return
	}

	result, err := fn(r.Context(), service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status := statusForAuthError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("authentication failed",
				slog.String("page", page),
				slog.String("request_id", requestID(r)),
				slog.Any("error", err),
			)
		}
		h.renderAuthForm(w, r, status, page, service.ReasonOf(err, fallback), req.Email)
		return
	}

	// Rotate: the session the request arrived with, if any, is dropped.
	if previous := auth.SessionTokenFromContext(r.Context()); previous != "" {
		if err := h.auth.DiscardSession(r.Context(), previous); err != nil {
			h.logger.Warn("discard previous session failed",
				slog.String("request_id", requestID(r)),
				slog.Any("error", err),
			)
		}
	}

	h.cookies.SetCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderAuthForm(w http.ResponseWriter, r *http.Request, status int, page, reason, email string) {
	title := "Log in"
	if page == view.PageSignup {
		title = "Sign up"
	}
	h.render(w, r, status, page, view.AuthFormData{
		Base:  h.base(r, title),
		Error: reason,
		Email: email,
	})
}

// statusForAuthError maps service error kinds to HTTP status codes.
func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
