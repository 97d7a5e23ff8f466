// Package constants provides shared constants used throughout the locrecon codebase.
// This includes timeouts, limits, cache settings and the authority service
// defaults that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout bounds each HTTP call to the authority service
	DefaultHTTPTimeout = 8 * time.Second

	// ShutdownTimeout is how long the HTTP server waits for in-flight requests
	ShutdownTimeout = 30 * time.Second

	// DefaultReadTimeout is the HTTP server read timeout
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the HTTP server write timeout; batches run several cascades
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout is the HTTP server idle timeout
	DefaultIdleTimeout = 120 * time.Second
)

// Limit constants define various limits and capacities
const (
	// DefaultQueryLimit is the number of results returned per query when the caller gives none
	DefaultQueryLimit = 3

	// DefaultScoreLimit is the scorer's own truncation default
	DefaultScoreLimit = 20

	// MaxConcurrentQueries bounds the workers used for one batch request
	MaxConcurrentQueries = 4

	// MaxResponseBytes caps how much of an authority response is read
	MaxResponseBytes = 4 << 20

	// ErrorBodyBytes caps how much of a failed response body is kept in errors
	ErrorBodyBytes = 2048
)

// Rate limiting constants
const (
	// DefaultRateLimit is the default requests per minute per client IP
	DefaultRateLimit = 120

	// BurstSize is the token bucket burst size for rate limiting
	BurstSize = 10
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached reconciliation results
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Authority service defaults
const (
	// DefaultAuthorityURL is the base URL of the Library of Congress linked data service
	DefaultAuthorityURL = "http://id.loc.gov"

	// DefaultUserAgent identifies the service to id.loc.gov
	DefaultUserAgent = "locrecon/1.0 (+https://github.com/agentstation/locrecon)"

	// DefaultScrapeMarkup selects the scrape markup profile
	DefaultScrapeMarkup = "table"
)

// Server defaults
const (
	// DefaultHost is the default bind address
	DefaultHost = "localhost"

	// DefaultPort is the default listen port
	DefaultPort = 5000

	// DefaultPathPrefix is the reconciliation endpoint path
	DefaultPathPrefix = "/reconcile/LoC"
)

// Path constants
const (
	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".locrecon"

	// EnvPrefix is the prefix for environment variable configuration
	EnvPrefix = "LOCRECON"
)
