// Package similarity scores authority candidates against the text a
// caller asked for and ranks them.
//
// The metric is the Ratcliff/Obershelp ratio 2*M/T computed by a
// difflib sequence matcher over runes, rounded to three decimal places.
package similarity

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/constants"
	"github.com/agentstation/locrecon/pkg/normalize"
)

// ExactScore is the rendered score of a perfect match.
const ExactScore = "1.0"

// Scored is a candidate with its rounded similarity score.
type Scored struct {
	// Score is the rounded ratio in its shortest decimal form, e.g. "0.667".
	Score string `json:"score" yaml:"score"`
	// Value is the rounded ratio as a number.
	Value     float64             `json:"-" yaml:"-"`
	Candidate authority.Candidate `json:"candidate" yaml:"candidate"`
	Match     bool                `json:"match" yaml:"match"`
}

// Ratio returns the similarity of a and b in [0, 1]. Two empty strings
// are identical.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Round rounds v to three decimal places.
func Round(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return r
}

// FormatScore rounds v to three decimal places and renders it in its
// shortest form, keeping at least one fractional digit: 1 -> "1.0",
// 0.5 -> "0.5", 2/3 -> "0.667".
func FormatScore(v float64) string {
	s := strconv.FormatFloat(Round(v), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// CleanLabel prepares a candidate label for comparison: lowercased,
// "&amp;" decoded and one trailing period removed.
func CleanLabel(label string) string {
	label = strings.ReplaceAll(normalize.Lower(label), "&amp;", "&")
	return strings.TrimSuffix(label, ".")
}

// Score compares the original query text with one candidate.
func Score(original string, c authority.Candidate) Scored {
	v := Round(Ratio(normalize.Lower(original), CleanLabel(c.Label)))
	score := FormatScore(v)
	return Scored{
		Score:     score,
		Value:     v,
		Candidate: c,
		Match:     score == ExactScore,
	}
}

// Rank scores every candidate against original, optionally sorts by
// score descending (ties keep retrieval order) and truncates to limit.
// A limit of zero or less means the default of 20.
func Rank(original string, candidates []authority.Candidate, limit int, sorted bool) []Scored {
	if limit <= 0 {
		limit = constants.DefaultScoreLimit
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Score(original, c))
	}

	if sorted {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Value > scored[j].Value
		})
	}

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
