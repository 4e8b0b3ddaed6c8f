package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pathmuseum/museum/internal/auth"
	"github.com/pathmuseum/museum/internal/cache"
	"github.com/pathmuseum/museum/internal/config"
	"github.com/pathmuseum/museum/internal/content"
	"github.com/pathmuseum/museum/internal/handler"
	"github.com/pathmuseum/museum/internal/metrics"
	"github.com/pathmuseum/museum/internal/middleware"
	"github.com/pathmuseum/museum/internal/repository"
	"github.com/pathmuseum/museum/internal/service"
	"github.com/pathmuseum/museum/internal/session"
	"github.com/pathmuseum/museum/internal/view"
)

const sessionSweepInterval = time.Minute

// app holds every long-lived dependency of the server.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	credentials service.CredentialStore
	sessions    session.Store

	// Health checks; nil when the in-memory fallback is in use.
	db    handler.HealthChecker
	cache handler.HealthChecker

	recorder       metrics.Recorder
	metricsHandler http.Handler

	// closers run in reverse order on shutdown.
	closers []namedCloser
}

type namedCloser struct {
	name string
	fn   func() error
}

// newApp connects the configured backends. Empty DATABASE_URL or REDIS_URL
// selects the in-memory store for that concern.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if err := a.openCredentials(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.openSessions(ctx); err != nil {
		a.close()
		return nil, err
	}

	if cfg.MetricsEnabled {
		reg := metrics.NewRegistry()
		a.recorder = metrics.NewPrometheus(reg)
		a.metricsHandler = metrics.Handler(reg)
	} else {
		a.recorder = metrics.NewNoop()
	}

	return a, nil
}

func (a *app) openCredentials(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		a.logger.Warn("DATABASE_URL not set; identities are kept in memory")
		a.credentials = repository.NewMemoryStore()
		return nil
	}

	if a.cfg.AutoMigrate {
		if err := migrateUp(a.cfg.DatabaseURL, a.logger); err != nil {
			return err
		}
	}

	repo, err := repository.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return &backendError{name: "database", url: a.cfg.DatabaseURL, err: err}
	}
	a.logger.Info("connected to database")

	a.credentials = repo
	a.db = repo
	a.closers = append(a.closers, namedCloser{"postgres", func() error {
		repo.Close()
		return nil
	}})
	return nil
}

func (a *app) openSessions(ctx context.Context) error {
	if a.cfg.RedisURL == "" {
		a.logger.Warn("REDIS_URL not set; sessions are kept in memory")
		store := session.NewMemoryStore(sessionSweepInterval)
		a.sessions = store
		a.closers = append(a.closers, namedCloser{"session-janitor", store.Close})
		return nil
	}

	c, err := cache.New(ctx, a.cfg.RedisURL)
	if err != nil {
		return &backendError{name: "redis", url: a.cfg.RedisURL, err: err}
	}
	a.logger.Info("connected to Redis")

	a.sessions = c
	a.cache = c
	a.closers = append(a.closers, namedCloser{"redis", c.Close})
	return nil
}

func migrateUp(databaseURL string, logger *slog.Logger) error {
	m, err := repository.NewMigrator(databaseURL, logger)
	if err != nil {
		return &backendError{name: "migrations", url: databaseURL, err: err}
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return &backendError{name: "migrations", url: databaseURL, err: err}
	}

	version, _, err := m.Version()
	if err == nil {
		logger.Info("database schema up to date", slog.Uint64("version", uint64(version)))
	}
	return nil
}

// close releases backends in reverse order of opening.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.closers[i].name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// handlers builds the HTTP layer on top of the opened backends.
func (a *app) handlers() (http.Handler, error) {
	registry, err := loadRegistry(a.cfg.ContentFile)
	if err != nil {
		return nil, err
	}
	a.logger.Info("specimens loaded", slog.Int("count", registry.Len()))

	views, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	hasher, err := auth.NewHasher(a.cfg.PasswordHashAlgo, a.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(a.sessions, a.cfg.SessionTTL, a.logger)
	cookies := session.CookieConfig{
		Name:   a.cfg.SessionCookieName,
		TTL:    manager.TTL(),
		Secure: a.cfg.IsProduction(),
	}

	authService := service.NewAuthService(a.credentials, hasher, manager, a.recorder, a.logger)

	h := handler.New(handler.Config{
		Auth:     authService,
		Registry: registry,
		Views:    views,
		Cookies:  cookies,
		Public:   os.DirFS(a.cfg.PublicDir),
		Metrics:  a.recorder,
		Logger:   a.logger,
	})

	return setupRouter(routerDeps{
		cfg:            a.cfg,
		logger:         a.logger,
		handler:        h,
		health:         handler.NewHealthHandler(a.db, a.cache, a.logger),
		sessions:       manager,
		cookies:        cookies,
		recorder:       a.recorder,
		metricsHandler: a.metricsHandler,
	}), nil
}

func loadRegistry(path string) (*content.Registry, error) {
	if path == "" {
		return content.Default()
	}
	registry, err := content.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load content file: %w", err)
	}
	return registry, nil
}

type routerDeps struct {
	cfg            *config.Config
	logger         *slog.Logger
	handler        *handler.Handler
	health         *handler.HealthHandler
	sessions       middleware.SessionResolver
	cookies        session.CookieConfig
	recorder       metrics.Recorder
	metricsHandler http.Handler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = d.cfg.IsDevelopment()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger, d.recorder))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(securityCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))
	r.Use(chimiddleware.GetHead)

	// Probes and metrics carry no session.
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	if d.metricsHandler != nil {
		r.Handle("/metrics", d.metricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(d.sessions, d.cookies))

		r.Get("/", d.handler.Home)

		r.Get("/signup", d.handler.SignupForm)
		r.Post("/signup", d.handler.Signup)
		r.Get("/login", d.handler.LoginForm)
		r.Post("/login", d.handler.Login)
		r.Post("/logout", d.handler.Logout)

		r.Get("/description/{type}", d.handler.Description)
		r.Get("/video/{type}", d.handler.Video)
		r.Get("/model/{type}", d.handler.Model)

		r.Get("/videos/*", http.StripPrefix("/videos", http.HandlerFunc(d.handler.Static)).ServeHTTP)
	})

	// Everything else is a public asset or the 404 page.
	fallback := middleware.Session(d.sessions, d.cookies)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			d.handler.NotFound(w, req)
			return
		}
		d.handler.Static(w, req)
	}))
	r.NotFound(fallback.ServeHTTP)
	r.MethodNotAllowed(d.handler.MethodNotAllowed)

	return r
}

// backendError reports a failed backend with its URL redacted.
type backendError struct {
	name string
	url  string
	err  error
}

func (e *backendError) Error() string {
	return e.name + ": " + sanitizeError(e.err, e.url)
}

func (e *backendError) Unwrap() error {
	return e.err
}
