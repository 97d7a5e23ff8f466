package locrecon

import (
	"strings"
	"time"

	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/constants"
	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// Option configures New.
type Option func(*config) error

type config struct {
	authorityURL string
	httpTimeout  time.Duration
	userAgent    string
	scrapeMarkup string
	defaultLimit int
	concurrency  int
	getter       authority.Getter
	cache        reconcile.RetrievalCache
	hooks        stageHooks
}

func defaultConfig() *config {
	return &config{
		authorityURL: constants.DefaultAuthorityURL,
		httpTimeout:  constants.DefaultHTTPTimeout,
		userAgent:    constants.DefaultUserAgent,
		scrapeMarkup: constants.DefaultScrapeMarkup,
		defaultLimit: constants.DefaultQueryLimit,
		concurrency:  constants.MaxConcurrentQueries,
	}
}

// WithAuthorityURL sets the authority service base URL, such as
// "https://id.loc.gov".
func WithAuthorityURL(url string) Option {
	return func(c *config) error {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return errors.NewValidationError("authority_url", url, "must be an http or https URL")
		}
		c.authorityURL = url
		return nil
	}
}

// WithHTTPTimeout bounds each authority request.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *config) error {
		c.httpTimeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent sent to the authority service.
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		c.userAgent = ua
		return nil
	}
}

// WithScrapeMarkup selects how search result pages are read: "table" or
// "title".
func WithScrapeMarkup(name string) Option {
	return func(c *config) error {
		c.scrapeMarkup = name
		return nil
	}
}

// WithDefaultLimit sets the result count for queries that carry no limit.
func WithDefaultLimit(n int) Option {
	return func(c *config) error {
		c.defaultLimit = n
		return nil
	}
}

// WithConcurrency bounds how many queries of one batch run at once.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		c.concurrency = n
		return nil
	}
}

// WithGetter replaces the HTTP transport, for tests and custom clients.
// Timeout and user agent options do not apply to a replaced getter.
func WithGetter(g authority.Getter) Option {
	return func(c *config) error {
		c.getter = g
		return nil
	}
}

// WithCache keeps authority retrievals between calls.
func WithCache(cache reconcile.RetrievalCache) Option {
	return func(c *config) error {
		c.cache = cache
		return nil
	}
}

// WithStageHook registers a callback run after every retrieval stage.
func WithStageHook(fn StageHook) Option {
	return func(c *config) error {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
		return nil
	}
}
