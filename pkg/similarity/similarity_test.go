package similarity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/locrecon/pkg/authority"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1.0},
		{"", "", 1.0},
		{"abc", "", 0},
		{"abcd", "bcde", 0.75},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}

	assert.InDelta(t, 2.0/3.0, Ratio("abc", "abd"), 1e-9)
}

func TestRatio_Runes(t *testing.T) {
	// "é" is one element, not two bytes
	assert.InDelta(t, 0.75, Ratio("café", "cafe"), 1e-9)
}

func TestRatio_AutoJunk(t *testing.T) {
	// With 200 or more elements, characters occurring in more than 1% of
	// the second sequence are treated as junk and never start a match.
	assert.Zero(t, Ratio("xxxxx", "y"+strings.Repeat("x", 250)))
	assert.InDelta(t, 10.0/156.0, Ratio("xxxxx", "y"+strings.Repeat("x", 150)), 1e-9)
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.0, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{2.0 / 3.0, "0.667"},
		{0.75, "0.75"},
		{0.9996, "1.0"},
		{0.12345, "0.123"},
		{0.1, "0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatScore(tt.in), "FormatScore(%v)", tt.in)
	}
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "smith & co", CleanLabel("Smith &amp; Co."))
	assert.Equal(t, "obama, barack", CleanLabel("Obama, Barack"))
	assert.Equal(t, "etc.", CleanLabel("Etc.."))
}

func TestScore_ExactMatch(t *testing.T) {
	got := Score("Obama, Barack", authority.Candidate{Label: "Obama, Barack", URI: "http://id.loc.gov/authorities/names/n94112934"})

	assert.Equal(t, "1.0", got.Score)
	assert.Equal(t, 1.0, got.Value)
	assert.True(t, got.Match)
}

func TestScore_TrailingPeriodAndCase(t *testing.T) {
	got := Score("MARK TWAIN", authority.Candidate{Label: "Mark Twain.", URI: "u"})
	assert.Equal(t, "1.0", got.Score)
	assert.True(t, got.Match)
}

func TestScore_NearMatchIsNotAMatch(t *testing.T) {
	got := Score("abc", authority.Candidate{Label: "abd", URI: "u"})
	assert.Equal(t, "0.667", got.Score)
	assert.False(t, got.Match)
}

func TestRank(t *testing.T) {
	candidates := []authority.Candidate{
		{Label: "abd", URI: "u1"},
		{Label: "abc", URI: "u2"},
		{Label: "xyz", URI: "u3"},
		{Label: "abe", URI: "u4"},
	}

	t.Run("sorted", func(t *testing.T) {
		got := Rank("abc", candidates, 0, true)
		require.Len(t, got, 4)
		assert.Equal(t, "u2", got[0].Candidate.URI)
		// equal scores keep retrieval order
		assert.Equal(t, "u1", got[1].Candidate.URI)
		assert.Equal(t, "u4", got[2].Candidate.URI)
		assert.Equal(t, "u3", got[3].Candidate.URI)
		assert.Equal(t, []string{"1.0", "0.667", "0.667", "0.0"}, scores(got))
	})

	t.Run("unsorted keeps order", func(t *testing.T) {
		got := Rank("abc", candidates, 0, false)
		assert.Equal(t, []string{"0.667", "1.0", "0.0", "0.667"}, scores(got))
	})

	t.Run("limit", func(t *testing.T) {
		got := Rank("abc", candidates, 2, true)
		assert.Equal(t, []string{"1.0", "0.667"}, scores(got))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Rank("abc", nil, 3, true))
	})
}

func TestRank_DefaultLimit(t *testing.T) {
	candidates := make([]authority.Candidate, 30)
	for i := range candidates {
		candidates[i] = authority.Candidate{Label: "x", URI: "u"}
	}
	assert.Len(t, Rank("x", candidates, 0, true), 20)
	assert.Len(t, Rank("x", candidates, -5, false), 20)
}

func scores(s []Scored) []string {
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].Score
	}
	return out
}
