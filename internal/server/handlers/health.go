package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/locrecon/internal/server/response"
)

// HandleHealth handles GET /health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "locrecon",
		"version": h.version,
		"time":    utc.Now(),
	})
}

// HandleReady handles GET /ready (readiness probe).
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.service == nil {
		response.ServiceUnavailable(w, "Reconciliation service not configured")
		return
	}

	data := map[string]any{
		"status":     "ready",
		"service":    h.service.Metadata().Name,
		"started_at": h.startedAt,
		"uptime":     time.Since(h.start).Round(time.Second).String(),
	}
	if h.cache != nil {
		data["cache"] = h.cache.GetStats()
	}
	response.OK(w, data)
}

// Banner is the plain-text body served at the root path.
const Banner = "LoC Reconciliation Service is running at this port!"

// HandleIndex handles GET / with a plain-text liveness banner. Other
// unmatched paths are 404.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		response.NotFound(w, "Not found", "No route for "+r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Banner))
}
