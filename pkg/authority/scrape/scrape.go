// Package scrape extracts authority record links from id.loc.gov search
// result pages. The page layout is an external contract that has changed
// over time, so each known layout is a named markup profile with its own
// recorded fixture.
package scrape

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/agentstation/locrecon/pkg/errors"
)

// Link is one record link found on a search page: the visible heading and
// the identifier token that follows the partition prefix in its href.
type Link struct {
	Label string
	Token string
}

// Markup names a search-page layout.
type Markup string

const (
	// Table matches the current layout, where each record link is the
	// sole content of a result table cell: <td><a href="/authorities/...">.
	Table Markup = "table"
	// Title matches the earlier layout, where record anchors carried a
	// title attribute.
	Title Markup = "title"
)

// Markups lists every supported profile.
func Markups() []Markup {
	return []Markup{Table, Title}
}

// ParseMarkup validates a profile name.
func ParseMarkup(name string) (Markup, error) {
	switch m := Markup(strings.ToLower(strings.TrimSpace(name))); m {
	case Table, Title:
		return m, nil
	case "":
		return Table, nil
	default:
		return "", errors.NewValidationError("scrape_markup", name, "must be one of: table, title")
	}
}

// Parse reads an HTML search page and returns the record links whose href
// path starts with prefix (for example "/authorities/names/"). Links
// missing a label or a token are dropped.
func (m Markup) Parse(r io.Reader, prefix string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapParse("html", "search page", err)
	}

	var anchors []*html.Node
	switch m {
	case Title:
		anchors = titledAnchors(doc)
	default:
		anchors = cellAnchors(doc)
	}

	links := make([]Link, 0, len(anchors))
	for _, a := range anchors {
		token, ok := tokenFor(attr(a, "href"), prefix)
		if !ok {
			continue
		}
		// entity-decoded text; the scorer's "&amp;" handling only matters
		// for labels from the JSON stage
		label := collapse(textOf(a))
		if label == "" && m == Title {
			label = collapse(attr(a, "title"))
		}
		if label == "" || token == "" {
			continue
		}
		links = append(links, Link{Label: label, Token: token})
	}
	return links, nil
}

// cellAnchors returns anchors that open a table cell.
func cellAnchors(doc *html.Node) []*html.Node {
	var out []*html.Node
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Td {
			return
		}
		if a := firstElementChild(n); a != nil && a.DataAtom == atom.A {
			out = append(out, a)
		}
	})
	return out
}

// titledAnchors returns anchors carrying a non-empty title attribute.
func titledAnchors(doc *html.Node) []*html.Node {
	var out []*html.Node
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A && strings.TrimSpace(attr(n, "title")) != "" {
			out = append(out, n)
		}
	})
	return out
}

// tokenFor strips prefix from the path of href. Absolute hrefs are reduced
// to their path first.
func tokenFor(href, prefix string) (string, bool) {
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	path := u.Path
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return strings.TrimPrefix(path, prefix), true
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
