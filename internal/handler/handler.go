// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/content"
	"github.com/pathmuseum/museum/internal/metrics"
	"github.com/pathmuseum/museum/internal/middleware"
	"github.com/pathmuseum/museum/internal/service"
	"github.com/pathmuseum/museum/internal/session"
	"github.com/pathmuseum/museum/internal/view"
)

// Authenticator is the part of service.AuthService the handlers use.
type Authenticator interface {
	Signup(ctx context.Context, creds service.Credentials) (*service.AuthResult, error)
	Login(ctx context.Context, creds service.Credentials) (*service.AuthResult, error)
	Logout(ctx context.Context, token string) error
	DiscardSession(ctx context.Context, token string) error
}

// Config wires the Handler's dependencies.
type Config struct {
	Auth     Authenticator
	Registry *content.Registry
	Views    *view.Renderer
	Cookies  session.CookieConfig
	// Public holds the static assets: stylesheets, scripts, videos and
	// 3D models.
	Public  fs.FS
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// Handler serves the museum's pages.
type Handler struct {
	auth     Authenticator
	registry *content.Registry
	views    *view.Renderer
	cookies  session.CookieConfig
	public   fs.FS
	files    http.Handler
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// New creates a new Handler instance.
func New(cfg Config) *Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Public == nil {
		cfg.Public = os.DirFS("public")
	}
	return &Handler{
		auth:     cfg.Auth,
		registry: cfg.Registry,
		views:    cfg.Views,
		cookies:  cfg.Cookies,
		public:   cfg.Public,
		files:    http.FileServerFS(cfg.Public),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// Home renders the specimen list.
// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageIndex, view.IndexData{
		Base:      h.base(r, ""),
		Specimens: h.registry.Specimens(),
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, view.PageNotFound, view.ErrorData{
		Base: h.base(r, "Not found"),
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusMethodNotAllowed, view.PageError, view.ErrorData{
		Base:    h.base(r, "Method not allowed"),
		Message: "This address does not accept " + r.Method + " requests.",
	})
}

// Static serves a file from the public directory, or the 404 page.
// Directories are never listed.
// GET /*
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		h.NotFound(w, r)
		return
	}

	info, err := fs.Stat(h.public, name)
	if err != nil || info.IsDir() {
		h.NotFound(w, r)
		return
	}

	h.files.ServeHTTP(w, r)
}

func (h *Handler) base(r *http.Request, title string) view.Base {
	return view.Base{
		Viewer: auth.ViewerFromContext(r.Context()),
		Title:  title,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("render failed",
			slog.String("page", page),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
