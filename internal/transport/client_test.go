package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
)

func TestBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(BrowserHeaders(constants.RatingHost))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, constants.UserAgent, got.Get("User-Agent"))
	assert.Equal(t, constants.AcceptHeader, got.Get("Accept"))
	assert.Equal(t, constants.AcceptLanguage, got.Get("Accept-Language"))
	assert.Equal(t, constants.RatingHost, got.Get("Referer"))
}

func TestNoHeaders(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	NoHeaders{}.Apply(req)
	assert.Empty(t, req.Header)
}

func TestNewDefaults(t *testing.T) {
	c := New(nil)
	assert.Equal(t, DefaultHTTPTimeout, c.Timeout())

	c = New(nil, WithTimeout(2*time.Second))
	assert.Equal(t, 2*time.Second, c.Timeout())

	c = New(nil, WithTimeout(0))
	assert.Equal(t, DefaultHTTPTimeout, c.Timeout(), "non-positive timeout is ignored")
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"_id":"1","name":"a","rating":1.5}]`))
		}))
		defer srv.Close()

		var out []map[string]any
		err := New(nil).GetJSON(context.Background(), "ctf", srv.URL, &out)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "a", out[0]["name"])
	})

	t.Run("non-200 is an API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		var out []any
		err := New(nil).GetJSON(context.Background(), "ctf", srv.URL, &out)
		require.Error(t, err)

		var apiErr *errors.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.Equal(t, "ctf", apiErr.Source)
		assert.True(t, errors.IsSourceUnavailable(err))
	})

	t.Run("bad json is a parse error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"`))
		}))
		defer srv.Close()

		var out []any
		err := New(nil).GetJSON(context.Background(), "tdm", srv.URL, &out)

		var parseErr *errors.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "json", parseErr.Format)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		var out []any
		err := New(nil).GetJSON(context.Background(), "tdm", url, &out)

		var apiErr *errors.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 0, apiErr.StatusCode)
		assert.Equal(t, url, apiErr.Endpoint)
		assert.False(t, errors.IsTimeout(err))
	})

	t.Run("client timeout is a timeout error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		var out []any
		err := New(nil, WithTimeout(50*time.Millisecond)).GetJSON(context.Background(), "ctf", srv.URL, &out)
		require.Error(t, err)
		assert.True(t, errors.IsTimeout(err))
		assert.False(t, errors.IsSourceUnavailable(err))

		var timeoutErr *errors.TimeoutError
		require.True(t, errors.As(err, &timeoutErr))
		assert.Equal(t, "fetch ctf", timeoutErr.Operation)
		assert.Equal(t, "50ms", timeoutErr.Duration)
	})

	t.Run("context deadline is a timeout error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		var out []any
		err := New(nil).GetJSON(ctx, "tdm", srv.URL, &out)
		assert.True(t, errors.IsTimeout(err))
	})

	t.Run("bad url", func(t *testing.T) {
		var out []any
		err := New(nil).GetJSON(context.Background(), "ctf", "://nope", &out)
		require.Error(t, err)
	})
}
