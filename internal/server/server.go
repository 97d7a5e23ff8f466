package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon"
	"github.com/agentstation/locrecon/internal/metrics"
	"github.com/agentstation/locrecon/internal/server/cache"
	"github.com/agentstation/locrecon/internal/server/middleware"
	"github.com/agentstation/locrecon/pkg/constants"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	service   *reconcile.Service
	cache     *cache.Cache
	metrics   *metrics.Metrics
	limiter   *middleware.RateLimiter
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(cfg Config, logger *zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.CacheTTL
	}

	logger.Debug().Msg("Creating new server instance")

	m := metrics.New()

	// negative TTL disables caching
	opts := []locrecon.Option{
		locrecon.WithAuthorityURL(cfg.AuthorityURL),
		locrecon.WithHTTPTimeout(cfg.HTTPTimeout),
		locrecon.WithUserAgent(cfg.UserAgent),
		locrecon.WithScrapeMarkup(cfg.ScrapeMarkup),
		locrecon.WithDefaultLimit(cfg.DefaultLimit),
		locrecon.WithConcurrency(cfg.MaxConcurrentQueries),
		locrecon.WithStageHook(m.ObserveStage),
	}
	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, constants.CacheCleanupInterval)
		c.OnLookup(m.ObserveCache)
		opts = append(opts, locrecon.WithCache(c))
	}

	service, err := locrecon.New(opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("authority_url", cfg.AuthorityURL).
		Str("scrape_markup", cfg.ScrapeMarkup).
		Bool("cache", c != nil).
		Msg("Reconciliation service created")

	s := &Server{
		service:   service,
		cache:     c,
		metrics:   m,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	logger.Debug().Msg("Server instance created successfully")
	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server for the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.config.Addr()
}

// Shutdown releases background resources. The HTTP listener itself is
// shut down by its owner.
func (s *Server) Shutdown(_ context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	s.logger.Info().
		Dur("uptime", time.Since(s.startTime)).
		Msg("Server background services stopped")
	return nil
}

// PathPrefix returns the reconciliation endpoint path.
func (s *Server) PathPrefix() string {
	return strings.TrimSuffix(s.config.PathPrefix, "/")
}

// Service returns the reconciliation service.
func (s *Server) Service() *reconcile.Service {
	return s.service
}

// Cache returns the server's cache instance, or nil when caching is off.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
