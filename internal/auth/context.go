package auth

import (
	"context"

	"github.com/pathmuseum/museum/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	viewerContextKey contextKey = "viewer"
	tokenContextKey  contextKey = "session_token"
)

// ContextWithViewer adds the resolved viewer and its session token to the
// context.
func ContextWithViewer(ctx context.Context, viewer model.Viewer, token string) context.Context {
	ctx = context.WithValue(ctx, viewerContextKey, viewer)
	return context.WithValue(ctx, tokenContextKey, token)
}

// ViewerFromContext retrieves the viewer from the context.
// Returns an anonymous viewer if none is present.
func ViewerFromContext(ctx context.Context) model.Viewer {
	viewer, ok := ctx.Value(viewerContextKey).(model.Viewer)
	if !ok {
		return model.Viewer{}
	}
	return viewer
}

// SessionTokenFromContext returns the raw session token presented by the
// client, or "" when the request carried none.
func SessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
