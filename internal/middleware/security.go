package middleware

import (
	"net/http"
	"strings"
)

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
	// ScriptSources are extra origins allowed to serve scripts, such as the
	// CDN that hosts the 3D viewer library.
	ScriptSources []string
}

// DefaultSecurityConfig returns sensible defaults for production.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		IsDevelopment: false,
		ScriptSources: []string{"https://esm.sh"},
	}
}

// ContentSecurityPolicy builds the CSP for the HTML pages. Scripts, styles
// and media are same-origin except for the configured script sources.
func (c SecurityConfig) ContentSecurityPolicy() string {
	scripts := strings.Join(append([]string{"'self'"}, c.ScriptSources...), " ")
	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + scripts,
		"connect-src " + scripts,
		"img-src 'self' data: blob:",
		"media-src 'self'",
		"style-src 'self'",
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ")
}

// Security returns a middleware that applies security headers to all responses.
// This middleware should be applied early in the chain.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	csp := cfg.ContentSecurityPolicy()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			// CSP supersedes the legacy XSS filter.
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", csp)
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")

			// max-age=31536000 = 1 year
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			// Pages depend on the session; never let shared caches keep them.
			if !isStaticAsset(r.URL.Path) {
				h.Set("Cache-Control", "no-store")
			}

			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

func isStaticAsset(path string) bool {
	for _, prefix := range []string{"/css/", "/js/", "/videos/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	switch {
	case strings.HasSuffix(path, ".mp4"), strings.HasSuffix(path, ".fbx"):
		return true
	}
	return false
}

// MaxBodySize returns a middleware that limits request body size.
// This prevents denial-of-service via large request bodies.
//
// When the limit is exceeded, the connection is closed and subsequent
// reads return an error.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
