package handlers

import (
	"net/http"
	"strings"

	"github.com/agentstation/locrecon/internal/server/response"
	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/logging"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// singleResponse is the answer to a lone "query" parameter.
type singleResponse struct {
	Result []reconcile.Result `json:"result"`
}

// HandleReconcile handles GET and POST on the reconciliation endpoint.
//
// A "queries" parameter holds a JSON object of named queries and is
// answered with one result list per name. A "query" parameter holds a
// single query, as a JSON object or as bare text. Without either, or when
// a batch contains a query without a type, the service metadata is
// returned. A "callback" parameter switches the response to JSONP.
func (h *Handlers) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form data", err.Error())
		return
	}

	ctx := r.Context()
	log := logging.FromContext(ctx)
	callback := r.Form.Get("callback")

	if raw := r.Form.Get("queries"); raw != "" {
		batch, err := reconcile.ParseBatch([]byte(raw))
		if err != nil {
			log.Warn().Err(err).Msg("Rejected queries payload")
			response.ErrorFromType(w, err)
			return
		}

		results, ok := h.service.ReconcileBatch(ctx, batch)
		if !ok {
			log.Debug().Int("queries", len(batch)).Msg("Untyped query in batch, serving metadata")
			h.writeMetadata(w, callback)
			return
		}

		h.observe(ModeBatch)
		log.Info().Int("queries", len(batch)).Msg("Batch reconciled")
		response.Payload(w, http.StatusOK, results, callback)
		return
	}

	if raw := r.Form.Get("query"); raw != "" {
		q := parseSingle(raw)
		if q.Err != nil {
			response.ErrorFromType(w, q.Err)
			return
		}

		h.observe(ModeSingle)
		results := h.service.ReconcileQuery(ctx, q.Query, q.Type, q.Limit)
		response.Payload(w, http.StatusOK, singleResponse{Result: results}, callback)
		return
	}

	h.writeMetadata(w, callback)
}

func (h *Handlers) writeMetadata(w http.ResponseWriter, callback string) {
	h.observe(ModeMetadata)
	response.Payload(w, http.StatusOK, h.service.Metadata(), callback)
}

// parseSingle reads a "query" parameter. JSON objects and strings are
// decoded; anything else is taken as the query text itself.
func parseSingle(raw string) reconcile.Query {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, `"`) {
		q := reconcile.ParseQuery([]byte(trimmed))
		if q.Err != nil && !errors.IsValidationError(q.Err) {
			// not JSON after all
			return reconcile.Query{Query: raw}
		}
		return q
	}
	return reconcile.Query{Query: raw}
}
