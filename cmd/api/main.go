// Package main is the entrypoint for the pathology museum web server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/pathmuseum/museum/internal/config"
	"github.com/pathmuseum/museum/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logBackendError(logger, err)
		os.Exit(1)
	}

	router, err := a.handlers()
	if err != nil {
		logger.Error("failed to build handlers", slog.Any("error", err))
		_ = a.close()
		os.Exit(1)
	}

	srv := server.New(router, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("backends", func(context.Context) error {
		return a.close()
	})

	logger.Info("starting server",
		slog.Int("port", cfg.Port),
		slog.String("env", cfg.AppEnv),
		slog.Bool("postgres", cfg.DatabaseURL != ""),
		slog.Bool("redis", cfg.RedisURL != ""),
		slog.Bool("metrics", cfg.MetricsEnabled),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

func logBackendError(logger *slog.Logger, err error) {
	var be *backendError
	if errors.As(err, &be) {
		logger.Error("failed to open backend",
			slog.String("backend", be.name),
			slog.String("error", be.Error()),
			slog.String("url", redactURL(be.url)),
		)
		return
	}
	logger.Error("failed to start", slog.Any("error", err))
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// sanitizeError replaces every secret in err's message with its redacted
// form and masks password= pairs.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
