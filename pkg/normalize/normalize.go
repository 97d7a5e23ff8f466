// Package normalize turns free-text reconciliation input into the search
// term sent to the authority service.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lower = cases.Lower(language.Und)

	separators = strings.NewReplacer("--", " ")
	commas     = strings.NewReplacer(", ", " ")
	controls   = strings.NewReplacer("\t", "", "\n", "")
)

// Normalize canonicalizes raw into a search term. The steps run in a fixed
// order: drop one trailing period, lowercase, trim surrounding whitespace,
// collapse "--" and ", " to a space, then delete tabs and newlines.
func Normalize(raw string) string {
	s := strings.TrimSuffix(raw, ".")
	s = Lower(s)
	s = strings.TrimSpace(s)
	s = separators.Replace(s)
	s = commas.Replace(s)
	return controls.Replace(s)
}

// Lower applies Unicode lowercasing. It is shared with the scorer so both
// sides of a comparison fold case identically.
func Lower(s string) string {
	return lower.String(s)
}
