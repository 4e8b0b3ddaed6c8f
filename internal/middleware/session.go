package middleware

import (
	"context"
	"net/http"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/model"
	"github.com/pathmuseum/museum/internal/session"
)

// SessionResolver maps a session token to its viewer.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (model.Viewer, bool)
}

// Session resolves the session cookie and stores the viewer and the raw
// token in the request context. Requests without a live session continue
// as anonymous; a stale cookie is cleared.
func Session(resolver SessionResolver, cookies session.CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			viewer, ok := resolver.Resolve(r.Context(), token)
			if !ok {
				cookies.ClearCookie(w)
			}

			ctx := auth.ContextWithViewer(r.Context(), viewer, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
