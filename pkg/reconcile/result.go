package reconcile

import (
	"fmt"

	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/similarity"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// Result is one reconciliation candidate in the shape OpenRefine expects.
type Result struct {
	ID    string            `json:"id" yaml:"id"`
	Name  string            `json:"name" yaml:"name"`
	Score string            `json:"score" yaml:"score"`
	Match bool              `json:"match" yaml:"match"`
	Type  []vocabulary.Type `json:"type" yaml:"type"`
}

// Assemble converts scored candidates into results. Every result carries
// the full type list, whatever partition the candidate came from.
func Assemble(scored []similarity.Scored, types []vocabulary.Type) []Result {
	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		results = append(results, Result{
			ID:    s.Candidate.URI,
			Name:  s.Candidate.Label,
			Score: s.Score,
			Match: s.Match,
			Type:  types,
		})
	}
	return results
}

// CacheKey identifies a retrieval: the normalized term and the partition
// it was searched in. Scores depend on the raw query text, so the cache
// holds candidates and never scored results.
type CacheKey struct {
	Term      string
	Partition vocabulary.Partition
}

// String returns a stable textual form usable as a map or cache key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s", k.Partition.String(), k.Term)
}

// RetrievalCache stores cascade retrievals between requests.
type RetrievalCache interface {
	Get(key CacheKey) (authority.Retrieval, bool)
	Set(key CacheKey, retrieval authority.Retrieval)
}
