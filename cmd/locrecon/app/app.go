// Package app provides the application context and dependency management
// for the locrecon CLI: configuration, logging, the lazily built
// reconciliation service and the command tree.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon"
	"github.com/agentstation/locrecon/internal/cmd/application"
	"github.com/agentstation/locrecon/internal/server"
	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// App represents the locrecon application with all its dependencies.
type App struct {
	build application.BuildInfo

	config *Config
	logger *zerolog.Logger

	// Reconciler (lazy-initialized, singleton)
	mu         sync.RWMutex
	reconciler reconcile.Reconciler
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App for the given build.
func New(build application.BuildInfo, opts ...Option) (*App, error) {
	app := &App{build: build}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Build returns the version information stamped into the binary.
func (a *App) Build() application.BuildInfo {
	return a.build
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ServerConfig returns the server configuration built from the loaded config.
func (a *App) ServerConfig() server.Config {
	return a.config.ServerConfig(a.build.Version)
}

// Reconciler returns the reconciliation service, creating it lazily.
// The CLI service has no result cache: every command is a single run.
func (a *App) Reconciler() (reconcile.Reconciler, error) {
	a.mu.RLock()
	if a.reconciler != nil {
		r := a.reconciler
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.reconciler != nil {
		return a.reconciler, nil
	}

	r, err := a.buildReconciler()
	if err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}
	a.reconciler = r
	return r, nil
}

func (a *App) buildReconciler() (*reconcile.Service, error) {
	cfg := a.ServerConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return locrecon.New(
		locrecon.WithAuthorityURL(cfg.AuthorityURL),
		locrecon.WithHTTPTimeout(cfg.HTTPTimeout),
		locrecon.WithUserAgent(cfg.UserAgent),
		locrecon.WithScrapeMarkup(cfg.ScrapeMarkup),
		locrecon.WithDefaultLimit(cfg.DefaultLimit),
		locrecon.WithConcurrency(cfg.MaxConcurrentQueries),
	)
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Application shutdown")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithReconciler sets a custom reconciler (useful for testing).
func WithReconciler(r reconcile.Reconciler) Option {
	return func(a *App) error {
		a.reconciler = r
		return nil
	}
}
