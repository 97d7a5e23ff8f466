// Package locrecon reconciles free-text names and subjects against the
// Library of Congress authority files (LCNAF and LCSH) published at
// id.loc.gov.
//
// Each query is normalized, sent through a cascade of authority lookups
// (the suggest API, the didyoumean API, then the search results page),
// and the candidates found are ranked by string similarity to the
// original text. Results follow the OpenRefine reconciliation API.
//
// Example usage:
//
//	rec, err := locrecon.New(
//	    locrecon.WithHTTPTimeout(5 * time.Second),
//	    locrecon.WithDefaultLimit(5),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, r := range rec.ReconcileQuery(ctx, "Twain, Mark", "names", 0) {
//	    fmt.Printf("%s %s %s\n", r.Score, r.Name, r.ID)
//	}
package locrecon

import (
	"github.com/agentstation/locrecon/internal/transport"
	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/authority/scrape"
	"github.com/agentstation/locrecon/pkg/reconcile"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// New builds a reconciliation service against the authority service.
func New(opts ...Option) (*reconcile.Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	markup, err := scrape.ParseMarkup(cfg.scrapeMarkup)
	if err != nil {
		return nil, err
	}

	getter := cfg.getter
	if getter == nil {
		getter = transport.New(
			transport.WithTimeout(cfg.httpTimeout),
			transport.WithUserAgent(cfg.userAgent),
		)
	}

	client := authority.NewClient(
		authority.WithBaseURL(cfg.authorityURL),
		authority.WithMarkup(markup),
		authority.WithGetter(getter),
	)

	var cascadeOpts []authority.CascadeOption
	if len(cfg.hooks) > 0 {
		cascadeOpts = append(cascadeOpts, authority.WithObserver(cfg.hooks))
	}
	cascade := authority.NewCascade(client.Strategies(), cascadeOpts...)

	serviceOpts := []reconcile.Option{
		reconcile.WithMetadata(vocabulary.NewMetadata(client.BaseURL())),
		reconcile.WithDefaultLimit(cfg.defaultLimit),
		reconcile.WithConcurrency(cfg.concurrency),
	}
	if cfg.cache != nil {
		serviceOpts = append(serviceOpts, reconcile.WithCache(cfg.cache))
	}

	return reconcile.New(cascade, serviceOpts...)
}
