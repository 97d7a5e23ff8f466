package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/locrecon/pkg/errors"
)

func TestClient_Get(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`["ok"]`))
	}))
	defer srv.Close()

	c := New(WithUserAgent("locrecon-test"))
	body, err := c.Get(context.Background(), "suggest", srv.URL, "application/json")
	require.NoError(t, err)

	assert.Equal(t, `["ok"]`, string(body))
	assert.Equal(t, "locrecon-test", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_GetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New().Get(context.Background(), "didyoumean", srv.URL, "")
	require.Error(t, err)

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.True(t, errors.IsAuthorityUnavailable(err))
}

func TestClient_GetTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(WithTimeout(50 * time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, c.Timeout())

	_, err := c.Get(context.Background(), "scrape", srv.URL, "")
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err), "got %v", err)
}

func TestClient_GetConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New().Get(context.Background(), "suggest", url, "")
	require.Error(t, err)

	var apiErr *errors.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "mark twain", want: "mark%20twain"},
		{in: "a/b", want: "a/b"},
		{in: "c++ & co", want: "c%2B%2B%20%26%20co"},
		{in: "émile", want: "%C3%A9mile"},
		{in: "civil_rights-1.0~", want: "civil_rights-1.0~"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out []string
	require.NoError(t, DecodeJSON([]byte(`["a","b"]`), &out, "suggest"))
	assert.Equal(t, []string{"a", "b"}, out)

	err := DecodeJSON([]byte(`{`), &out, "suggest")
	var parseErr *errors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "json", parseErr.Format)
}
