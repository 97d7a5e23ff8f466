package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/agentstation/locrecon/internal/transport"
	"github.com/agentstation/locrecon/pkg/authority/scrape"
	"github.com/agentstation/locrecon/pkg/constants"
	"github.com/agentstation/locrecon/pkg/errors"
	"github.com/agentstation/locrecon/pkg/vocabulary"
)

// Stage names, in cascade order.
const (
	StageSuggest    = "suggest"
	StageDidYouMean = "didyoumean"
	StageScrape     = "scrape"
)

// Getter fetches a URL. *transport.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, endpoint, url, accept string) ([]byte, error)
}

// Client talks to one authority service instance.
type Client struct {
	base   string
	http   Getter
	markup scrape.Markup
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another service root. Trailing
// slashes are dropped.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.base = strings.TrimRight(base, "/")
		}
	}
}

// WithGetter replaces the HTTP transport.
func WithGetter(g Getter) Option {
	return func(c *Client) {
		if g != nil {
			c.http = g
		}
	}
}

// WithMarkup selects the search-page layout the scrape stage expects.
func WithMarkup(m scrape.Markup) Option {
	return func(c *Client) {
		if m != "" {
			c.markup = m
		}
	}
}

// NewClient creates a client for the public id.loc.gov service unless
// WithBaseURL says otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		base:   constants.DefaultAuthorityURL,
		markup: scrape.Table,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = transport.New()
	}
	return c
}

// BaseURL returns the service root, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// Markup returns the configured scrape profile.
func (c *Client) Markup() scrape.Markup {
	return c.markup
}

// TermURI returns the canonical record URI for an identifier token.
func (c *Client) TermURI(p vocabulary.Partition, token string) string {
	return c.base + "/authorities" + p.Path() + "/" + token
}

// TermDocumentURI returns the URI of a serialized record document, such
// as the ".html" or ".json" rendering.
func (c *Client) TermDocumentURI(p vocabulary.Partition, token, ext string) string {
	uri := c.TermURI(p, token)
	if ext == "" {
		return uri
	}
	return uri + "." + strings.TrimPrefix(ext, ".")
}

// Suggest queries the suggest API. The response is a four element JSON
// array whose second element holds labels and fourth element holds URIs,
// aligned by position.
func (c *Client) Suggest(ctx context.Context, term string, p vocabulary.Partition) ([]Candidate, error) {
	endpoint := c.base + "/authorities" + p.Path() + "/suggest/"
	body, err := c.http.Get(ctx, StageSuggest, endpoint+"?q="+transport.Quote(term), "application/json")
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := transport.DecodeJSON(body, &raw, endpoint); err != nil {
		return nil, err
	}
	labels, err := stringsAt(raw, 1, endpoint)
	if err != nil {
		return nil, err
	}
	uris, err := stringsAt(raw, 3, endpoint)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(labels))
	for i, label := range labels {
		if i >= len(uris) {
			break
		}
		if cand := (Candidate{Label: label, URI: uris[i]}); cand.valid() {
			out = append(out, cand)
		}
	}
	return out, nil
}

// stringsAt decodes raw[i] as a list of strings. A missing or null
// element is an empty list.
func stringsAt(raw []json.RawMessage, i int, source string) ([]string, error) {
	if i >= len(raw) || bytes.Equal(bytes.TrimSpace(raw[i]), []byte("null")) {
		return nil, nil
	}
	var values []string
	if err := transport.DecodeJSON(raw[i], &values, source); err != nil {
		return nil, err
	}
	return values, nil
}

// didYouMeanResponse is the XML document returned by the did-you-mean API.
// Every child of the root element is a term with a uri attribute.
type didYouMeanResponse struct {
	Terms []didYouMeanTerm `xml:",any"`
}

type didYouMeanTerm struct {
	URI   string
	Label string
}

// UnmarshalXML keeps only the text that precedes the first child element
// of a term. Markup nested inside a label and anything after it is dropped.
func (t *didYouMeanTerm) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "uri" {
			t.URI = a.Value
		}
	}

	var label strings.Builder
	child := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.CharData:
			if !child {
				label.Write(tok)
			}
		case xml.StartElement:
			child = true
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			t.Label = label.String()
			return nil
		}
	}
}

// DidYouMean queries the did-you-mean API.
func (c *Client) DidYouMean(ctx context.Context, term string, p vocabulary.Partition) ([]Candidate, error) {
	endpoint := c.base + "/authorities" + p.Path() + "/didyoumean/"
	body, err := c.http.Get(ctx, StageDidYouMean, endpoint+"?label="+transport.Quote(term), "application/xml")
	if err != nil {
		return nil, err
	}

	var doc didYouMeanResponse
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, errors.WrapParse("xml", endpoint, err)
	}

	out := make([]Candidate, 0, len(doc.Terms))
	for _, t := range doc.Terms {
		if cand := (Candidate{Label: strings.TrimSpace(t.Label), URI: strings.TrimSpace(t.URI)}); cand.valid() {
			out = append(out, cand)
		}
	}
	return out, nil
}

// Scrape reads the first page of web search results restricted to the
// partition and extracts the record links.
func (c *Client) Scrape(ctx context.Context, term string, p vocabulary.Partition) ([]Candidate, error) {
	endpoint := c.base + "/search/"
	scheme := url.QueryEscape(c.base + "/authorities/" + p.Segment())
	body, err := c.http.Get(ctx, StageScrape, endpoint+"?q="+transport.Quote(term)+"&q=cs%3A"+scheme, "text/html")
	if err != nil {
		return nil, err
	}

	links, err := c.markup.Parse(bytes.NewReader(body), "/authorities"+p.Path()+"/")
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(links))
	for _, l := range links {
		token := strings.TrimSuffix(l.Token, ".html")
		if cand := (Candidate{Label: l.Label, URI: c.TermURI(p, token)}); token != "" && cand.valid() {
			out = append(out, cand)
		}
	}
	return out, nil
}

// Strategies returns the three retrieval stages in cascade order.
func (c *Client) Strategies() []Strategy {
	return []Strategy{
		NewStrategy(StageSuggest, c.Suggest),
		NewStrategy(StageDidYouMean, c.DidYouMean),
		NewStrategy(StageScrape, c.Scrape),
	}
}
