package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/locrecon/pkg/authority/scrape"
	"github.com/agentstation/locrecon/pkg/constants"
	"github.com/agentstation/locrecon/pkg/errors"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// Reconciliation endpoint path
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Authority service
	AuthorityURL string
	HTTPTimeout  time.Duration
	UserAgent    string
	ScrapeMarkup string

	// Query handling
	DefaultLimit         int
	MaxConcurrentQueries int

	// Features
	MetricsEnabled bool
	Version        string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:                 constants.DefaultHost,
		Port:                 constants.DefaultPort,
		PathPrefix:           constants.DefaultPathPrefix,
		CORSEnabled:          false,
		CORSOrigins:          []string{},
		RateLimit:            constants.DefaultRateLimit,
		CacheTTL:             constants.CacheTTL,
		ReadTimeout:          constants.DefaultReadTimeout,
		WriteTimeout:         constants.DefaultWriteTimeout,
		IdleTimeout:          constants.DefaultIdleTimeout,
		AuthorityURL:         constants.DefaultAuthorityURL,
		HTTPTimeout:          constants.DefaultHTTPTimeout,
		UserAgent:            constants.DefaultUserAgent,
		ScrapeMarkup:         constants.DefaultScrapeMarkup,
		DefaultLimit:         constants.DefaultQueryLimit,
		MaxConcurrentQueries: constants.MaxConcurrentQueries,
		MetricsEnabled:       true,
		Version:              "dev",
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.NewValidationError("port", c.Port, "must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.PathPrefix, "/") || c.PathPrefix == "/" {
		return errors.NewValidationError("prefix", c.PathPrefix, "must start with / and name a path")
	}
	if c.RateLimit < 0 {
		return errors.NewValidationError("rate_limit", c.RateLimit, "cannot be negative")
	}
	if c.DefaultLimit <= 0 {
		return errors.NewValidationError("default_limit", c.DefaultLimit, "must be positive")
	}
	if c.MaxConcurrentQueries <= 0 {
		return errors.NewValidationError("max_concurrent_queries", c.MaxConcurrentQueries, "must be positive")
	}
	if !strings.HasPrefix(c.AuthorityURL, "http://") && !strings.HasPrefix(c.AuthorityURL, "https://") {
		return errors.NewValidationError("authority_url", c.AuthorityURL, "must be an http or https URL")
	}
	if _, err := scrape.ParseMarkup(c.ScrapeMarkup); err != nil {
		return err
	}
	return nil
}
