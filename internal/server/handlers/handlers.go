// Package handlers provides HTTP request handlers for the reconciliation
// service.
package handlers

import (
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/locrecon/internal/server/cache"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// Request modes counted by a QueryObserver.
const (
	ModeSingle   = "single"
	ModeBatch    = "batch"
	ModeMetadata = "metadata"
)

// QueryObserver counts reconciliation requests by mode.
type QueryObserver interface {
	ObserveQuery(mode string)
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	service  reconcile.Reconciler
	cache    *cache.Cache
	observer QueryObserver
	logger   *zerolog.Logger
	version  string

	startedAt utc.Time
	start     time.Time
}

// New creates a new Handlers instance. cache and observer may be nil.
func New(
	service reconcile.Reconciler,
	cache *cache.Cache,
	observer QueryObserver,
	logger *zerolog.Logger,
	version string,
) *Handlers {
	return &Handlers{
		service:   service,
		cache:     cache,
		observer:  observer,
		logger:    logger,
		version:   version,
		startedAt: utc.Now(),
		start:     time.Now(),
	}
}

func (h *Handlers) observe(mode string) {
	if h.observer != nil {
		h.observer.ObserveQuery(mode)
	}
}
