package authority

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/logging"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// Strategy is one retrieval stage.
type Strategy interface {
	// Name returns the stage name used in logs and metrics
	Name() string

	// Fetch returns the candidates the stage found for term
	Fetch(ctx context.Context, term string, p vocabulary.Partition) ([]Candidate, error)
}

// FetchFunc is the signature of a strategy's fetch operation.
type FetchFunc func(ctx context.Context, term string, p vocabulary.Partition) ([]Candidate, error)

type strategy struct {
	name  string
	fetch FetchFunc
}

// NewStrategy wraps fn as a named Strategy.
func NewStrategy(name string, fn FetchFunc) Strategy {
	return &strategy{name: name, fetch: fn}
}

func (s *strategy) Name() string { return s.name }

func (s *strategy) Fetch(ctx context.Context, term string, p vocabulary.Partition) ([]Candidate, error) {
	return s.fetch(ctx, term, p)
}

// Stage outcomes reported to an Observer.
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Observer receives one call per executed stage.
type Observer interface {
	ObserveStage(stage, outcome string, elapsed time.Duration)
}

// Retrieval is the outcome of a cascade run. Stage names the strategy that
// produced the candidates and is empty when none did.
type Retrieval struct {
	Stage      string
	Candidates []Candidate
}

// Cascade evaluates strategies in order and stops at the first one that
// returns candidates.
type Cascade struct {
	strategies []Strategy
	observer   Observer
}

// CascadeOption configures a Cascade.
type CascadeOption func(*Cascade)

// WithObserver reports stage outcomes to o.
func WithObserver(o Observer) CascadeOption {
	return func(c *Cascade) {
		c.observer = o
	}
}

// NewCascade creates a cascade over strategies.
func NewCascade(strategies []Strategy, opts ...CascadeOption) *Cascade {
	c := &Cascade{strategies: strategies}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retrieve runs the cascade for a normalized term. Stage failures are
// logged and treated as empty results; Retrieve itself never fails. An
// expired or canceled context stops the cascade early.
func (c *Cascade) Retrieve(ctx context.Context, term string, p vocabulary.Partition) Retrieval {
	ctx = logging.WithQuery(ctx, term)
	ctx = logging.WithPartition(ctx, p.String())

	for _, s := range c.strategies {
		if ctx.Err() != nil {
			logging.FromContext(ctx).Debug().
				Err(ctx.Err()).
				Msg("Retrieval abandoned")
			break
		}

		start := time.Now()
		candidates, err := s.Fetch(ctx, term, p)
		elapsed := time.Since(start)

		stageLog := logging.FromContext(logging.WithStage(ctx, s.Name()))
		switch {
		case err != nil:
			c.observe(s.Name(), OutcomeError, elapsed)
			logStageError(stageLog, errors.WrapStage(s.Name(), term, err))
		case len(candidates) == 0:
			c.observe(s.Name(), OutcomeEmpty, elapsed)
			stageLog.Debug().Dur("elapsed", elapsed).Msg("No candidates")
		default:
			c.observe(s.Name(), OutcomeHit, elapsed)
			stageLog.Debug().
				Int("candidates", len(candidates)).
				Dur("elapsed", elapsed).
				Msg("Candidates found")
			return Retrieval{Stage: s.Name(), Candidates: candidates}
		}
	}
	return Retrieval{}
}

func (c *Cascade) observe(stage, outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveStage(stage, outcome, elapsed)
	}
}

func logStageError(log *zerolog.Logger, err error) {
	event := log.Warn()
	if errors.Is(err, context.Canceled) {
		event = log.Debug()
	}
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		event = event.Int("status", apiErr.StatusCode)
	}
	event.Err(err).Msg("Stage failed, continuing")
}
