// Package authority retrieves candidate records for a search term from the
// id.loc.gov authority service. Three strategies are tried in order by a
// Cascade: the suggest API, the did-you-mean API, and a scrape of the first
// page of web search results.
package authority

import "strings"

// Candidate is one (label, identifier) pair returned by a strategy.
type Candidate struct {
	Label string `json:"label" yaml:"label"`
	URI   string `json:"uri" yaml:"uri"`
}

// Token returns the last path segment of the candidate URI, for example
// "n79021164" for "http://id.loc.gov/authorities/names/n79021164".
func (c Candidate) Token() string {
	uri := strings.TrimRight(c.URI, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// valid reports whether both sides of the pair are present.
func (c Candidate) valid() bool {
	return c.Label != "" && c.URI != ""
}
