package server

import (
	"net/http"

	"github.com/agentstation/locrecon/internal/server/handlers"
	"github.com/agentstation/locrecon/internal/server/middleware"
)

// setupRouter builds the mux and wraps it in the middleware chain.
func (s *Server) setupRouter() http.Handler {
	h := handlers.New(s.service, s.cache, s.metrics, s.logger, s.config.Version)

	mux := http.NewServeMux()
	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// routes lists the paths reported as metric labels. Anything else is
// counted as "other" to keep label cardinality bounded.
func (s *Server) routes() []string {
	prefix := s.PathPrefix()
	return []string{"/", "/health", "/ready", "/metrics", prefix, prefix + "/"}
}

func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.PathPrefix()

	// browsers ask for it on every visit to the banner
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/ready", h.HandleReady)

	// OpenRefine clients are configured with either form of the URL
	mux.HandleFunc(prefix, h.HandleReconcile)
	mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != prefix+"/" {
			h.HandleIndex(w, r)
			return
		}
		h.HandleReconcile(w, r)
	})

	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.metrics.Handler())
	}
}

// applyMiddleware wraps next, innermost first: rate limiting, CORS,
// metrics, access logging, request IDs and panic recovery outermost.
func (s *Server) applyMiddleware(next http.Handler) http.Handler {
	var chain []func(http.Handler) http.Handler

	chain = append(chain,
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Metrics(s.metrics, s.routes()...),
	)
	if s.config.CORSEnabled {
		chain = append(chain, middleware.CORS(s.corsConfig()))
	}
	if s.limiter != nil {
		chain = append(chain, middleware.RateLimit(s.limiter))
	}

	return middleware.Chain(chain...)(next)
}

// corsConfig allows every origin unless specific origins or patterns are
// configured.
func (s *Server) corsConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(s.config.CORSOrigins) > 0 {
		cfg.AllowedOrigins = s.config.CORSOrigins
		cfg.AllowAll = false
	} else {
		cfg.AllowAll = true
	}
	return cfg
}
