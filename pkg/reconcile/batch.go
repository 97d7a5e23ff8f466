package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/locrecon/pkg/errors"
)

// Query is one entry of a reconciliation request.
type Query struct {
	Query string `json:"query"`
	Type  string `json:"type,omitempty"`
	Limit int    `json:"limit,omitempty"`

	// HasType is false when the entry carries no type, or a null one.
	HasType bool `json:"-"`
	// Err is set when the entry could not be understood. The rest of the
	// batch is still answered.
	Err error `json:"-"`

	malformed bool
}

// Batch maps caller-chosen keys to queries.
type Batch map[string]Query

// BatchEntry is the answer to one query of a batch.
type BatchEntry struct {
	Result []Result `json:"result" yaml:"result"`
	Error  string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchResponse maps the request keys to their answers.
type BatchResponse map[string]BatchEntry

// rawQuery keeps every field undecoded so one bad field does not hide
// the others.
type rawQuery struct {
	Query json.RawMessage `json:"query"`
	Type  json.RawMessage `json:"type"`
	Limit json.RawMessage `json:"limit"`
}

// ParseBatch decodes the "queries" parameter: a JSON object of named
// queries. Only a payload that is not a JSON object is an error;
// problems inside an entry are recorded on that entry.
func ParseBatch(data []byte) (Batch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse("json", "queries", err)
	}
	batch := make(Batch, len(raw))
	for key, msg := range raw {
		batch[key] = ParseQuery(msg)
	}
	return batch, nil
}

// ParseQuery decodes one query entry. A bare JSON string is a query
// without type or limit.
func ParseQuery(data []byte) Query {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return Query{Err: errors.WrapParse("json", "query", err), malformed: true}
		}
		return Query{Query: text}
	}

	var raw rawQuery
	if err := json.Unmarshal(data, &raw); err != nil {
		return Query{Err: errors.WrapParse("json", "query", err), malformed: true}
	}

	var q Query
	if isPresent(raw.Type) {
		q.HasType = true
		if err := json.Unmarshal(raw.Type, &q.Type); err != nil {
			q.Err = errors.NewValidationError("type", string(raw.Type), "must be a string")
		}
	}
	if q.Err == nil && isPresent(raw.Limit) {
		limit, err := parseLimit(raw.Limit)
		if err != nil {
			q.Err = err
		}
		q.Limit = limit
	}
	if q.Err == nil {
		if !isPresent(raw.Query) {
			q.Err = errors.NewValidationError("query", nil, "is required")
		} else if err := json.Unmarshal(raw.Query, &q.Query); err != nil {
			q.Err = errors.NewValidationError("query", string(raw.Query), "must be a string")
		}
	}
	return q
}

func isPresent(msg json.RawMessage) bool {
	return len(msg) > 0 && !bytes.Equal(msg, []byte("null"))
}

// parseLimit accepts a JSON number or a string holding an integer.
// Fractional numbers are truncated.
func parseLimit(msg json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		if i, err := strconv.Atoi(n.String()); err == nil {
			return i, nil
		}
		if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) && math.Abs(f) < math.MaxInt32 {
			return int(f), nil
		}
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, nil
		}
	}
	return 0, errors.NewValidationError("limit", string(msg), "must be an integer")
}

// Keys returns the batch keys in sorted order.
func (b Batch) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Typed reports whether every query carries a type. Entries that are
// not JSON objects or strings are skipped; they are answered with an
// error instead.
func (b Batch) Typed() bool {
	for _, q := range b {
		if !q.malformed && !q.HasType {
			return false
		}
	}
	return true
}

// ReconcileBatch answers every query of the batch. When any query lacks a
// type it answers nothing and returns false so the caller can serve the
// service metadata. Queries run concurrently, bounded by the configured
// concurrency; a malformed entry gets an empty result and an error
// message without affecting the others.
func (s *Service) ReconcileBatch(ctx context.Context, batch Batch) (BatchResponse, bool) {
	if !batch.Typed() {
		return nil, false
	}

	keys := batch.Keys()
	entries := make([]BatchEntry, len(keys))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, key := range keys {
		q := batch[key]
		if q.Err != nil {
			logger(ctx).Warn().Str("key", key).Err(q.Err).Msg("Malformed query in batch")
			entries[i] = BatchEntry{Result: []Result{}, Error: q.Err.Error()}
			continue
		}
		i, q := i, q
		g.Go(func() error {
			entries[i] = BatchEntry{Result: s.ReconcileQuery(ctx, q.Query, q.Type, q.Limit)}
			return nil
		})
	}
	_ = g.Wait()

	resp := make(BatchResponse, len(keys))
	for i, key := range keys {
		resp[key] = entries[i]
	}
	return resp, true
}
