// Package reconcile answers OpenRefine reconciliation queries against the
// Library of Congress authorities: it normalizes the query text, retrieves
// candidates through the authority cascade, scores them and assembles the
// result list.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/constants"
	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/logging"
	"github.com/agentstation/locrecon/pkg/normalize"
	"github.com/agentstation/locrecon/pkg/similarity"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// Retriever finds candidates for a normalized term. *authority.Cascade
// satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, term string, p vocabulary.Partition) authority.Retrieval
}

// Reconciler is the query surface used by the HTTP server and the CLI.
type Reconciler interface {
	// ReconcileQuery returns the ranked results for one query
	ReconcileQuery(ctx context.Context, text, typeID string, limit int) []Result

	// ReconcileBatch answers a batch of named queries. It returns false
	// when a query carries no type and metadata must be served instead.
	ReconcileBatch(ctx context.Context, batch Batch) (BatchResponse, bool)

	// Metadata returns the service description
	Metadata() vocabulary.Metadata
}

// Service is the default Reconciler.
type Service struct {
	retriever Retriever
	metadata  vocabulary.Metadata
	types     []vocabulary.Type
	cache     RetrievalCache

	defaultLimit int
	concurrency  int
}

var _ Reconciler = (*Service)(nil)

type options struct {
	metadata     vocabulary.Metadata
	cache        RetrievalCache
	defaultLimit int
	concurrency  int
}

func defaultOptions() *options {
	return &options{
		metadata:     vocabulary.NewMetadata(constants.DefaultAuthorityURL),
		defaultLimit: constants.DefaultQueryLimit,
		concurrency:  constants.MaxConcurrentQueries,
	}
}

// Option configures a Service.
type Option func(*options) error

// WithMetadata replaces the service metadata. Its default types are the
// type list attached to every result.
func WithMetadata(m vocabulary.Metadata) Option {
	return func(o *options) error {
		if m.Name == "" {
			return errors.NewValidationError("metadata.name", m.Name, "cannot be empty")
		}
		o.metadata = m
		return nil
	}
}

// WithDefaultLimit sets the result limit used when a query gives none.
func WithDefaultLimit(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.NewValidationError("default_limit", n, "must be positive")
		}
		o.defaultLimit = n
		return nil
	}
}

// WithConcurrency bounds how many queries of one batch run at once.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.NewValidationError("max_concurrent_queries", n, "must be positive")
		}
		o.concurrency = n
		return nil
	}
}

// WithCache keeps cascade retrievals in c. Scoring still runs on every
// query.
func WithCache(c RetrievalCache) Option {
	return func(o *options) error {
		o.cache = c
		return nil
	}
}

// New creates a Service that retrieves candidates from r.
func New(r Retriever, opts ...Option) (*Service, error) {
	if r == nil {
		return nil, errors.NewValidationError("retriever", nil, "cannot be nil")
	}
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Service{
		retriever:    r,
		metadata:     o.metadata,
		types:        o.metadata.DefaultTypes,
		cache:        o.cache,
		defaultLimit: o.defaultLimit,
		concurrency:  o.concurrency,
	}, nil
}

// Metadata returns the service description.
func (s *Service) Metadata() vocabulary.Metadata {
	return s.metadata
}

// DefaultLimit returns the limit applied to queries that give none.
func (s *Service) DefaultLimit() int {
	return s.defaultLimit
}

// ReconcileQuery normalizes text, retrieves candidates from the partition
// named by typeID, and returns at most limit results ranked by similarity
// to the original text. Unknown type identifiers search every partition.
// A limit of zero or less uses the default limit.
func (s *Service) ReconcileQuery(ctx context.Context, text, typeID string, limit int) []Result {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	term := normalize.Normalize(text)
	partition := vocabulary.Parse(typeID)

	retrieval := s.retrieve(ctx, term, partition)
	results := Assemble(similarity.Rank(text, retrieval.Candidates, limit, true), s.types)

	logger(ctx).Debug().
		Str("term", term).
		Stringer("partition", partition).
		Str("stage", retrieval.Stage).
		Int("results", len(results)).
		Msg("Query reconciled")
	return results
}

// retrieve runs the cascade for term, going through the cache when one is
// configured.
func (s *Service) retrieve(ctx context.Context, term string, p vocabulary.Partition) authority.Retrieval {
	if s.cache == nil {
		return s.retriever.Retrieve(ctx, term, p)
	}

	key := CacheKey{Term: term, Partition: p}
	if retrieval, ok := s.cache.Get(key); ok {
		logger(ctx).Debug().Str("term", term).Msg("Served from cache")
		return retrieval
	}

	retrieval := s.retriever.Retrieve(ctx, term, p)
	// a canceled request may have cut the cascade short
	if ctx.Err() == nil {
		s.cache.Set(key, retrieval)
	}
	return retrieval
}

func logger(ctx context.Context) *zerolog.Logger {
	return logging.FromContext(ctx)
}
