package locrecon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

type recordingGetter struct {
	mu   sync.Mutex
	urls []string
	body map[string]string
}

func (g *recordingGetter) Get(_ context.Context, endpoint, url, _ string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.urls = append(g.urls, url)
	return []byte(g.body[endpoint]), nil
}

func TestNew_Defaults(t *testing.T) {
	rec, err := New()
	require.NoError(t, err)

	meta := rec.Metadata()
	assert.Equal(t, "http://id.loc.gov/authorities", meta.IdentifierSpace)
	assert.Equal(t, 3, rec.DefaultLimit())
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithAuthorityURL("id.loc.gov"))
	assert.Error(t, err)

	_, err = New(WithScrapeMarkup("div"))
	assert.Error(t, err)

	_, err = New(WithDefaultLimit(0))
	assert.Error(t, err)

	_, err = New(WithConcurrency(-1))
	assert.Error(t, err)
}

func TestNew_WithGetterAndHooks(t *testing.T) {
	getter := &recordingGetter{body: map[string]string{
		"suggest": `["cats",["Cats","Cats in art"],["",""],` +
			`["http://id.loc.gov/authorities/subjects/sh85021262","http://id.loc.gov/authorities/subjects/sh85021263"]]`,
	}}

	var mu sync.Mutex
	var seen []string
	hook := func(stage, outcome string, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, stage+":"+outcome)
	}

	rec, err := New(
		WithAuthorityURL("https://id.example.org/"),
		WithGetter(getter),
		WithStageHook(hook),
		WithStageHook(nil),
	)
	require.NoError(t, err)

	results := rec.ReconcileQuery(context.Background(), "Cats", "subjects", 0)
	require.Len(t, results, 2)
	assert.Equal(t, "1.0", results[0].Score)
	assert.True(t, results[0].Match)

	require.Len(t, getter.urls, 1)
	assert.True(t, strings.HasPrefix(getter.urls[0], "https://id.example.org/authorities/subjects/suggest/"), getter.urls[0])
	assert.Equal(t, []string{"suggest:hit"}, seen)
	assert.Equal(t, "https://id.example.org/authorities", rec.Metadata().SchemaSpace)
}

type countingCache struct {
	mu   sync.Mutex
	data map[string]authority.Retrieval
	sets int
}

func (c *countingCache) Get(key reconcile.CacheKey) (authority.Retrieval, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[key.String()]
	return r, ok
}

func (c *countingCache) Set(key reconcile.CacheKey, retrieval authority.Retrieval) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key.String()] = retrieval
	c.sets++
}

func TestNew_WithCacheOverHTTP(t *testing.T) {
	var hits int
	var mu sync.Mutex
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		if strings.HasSuffix(r.URL.Path, "/suggest/") {
			_, _ = w.Write([]byte(`["x",["Mark Twain"],[""],["http://id.loc.gov/authorities/names/n1"]]`))
			return
		}
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	cache := &countingCache{data: map[string]authority.Retrieval{}}
	rec, err := New(WithAuthorityURL(upstream.URL), WithCache(cache), WithUserAgent("locrecon-test"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		results := rec.ReconcileQuery(context.Background(), "Mark Twain", "names", 1)
		require.Len(t, results, 1)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, cache.sets)
}
