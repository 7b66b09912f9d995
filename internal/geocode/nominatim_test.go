package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupUsesFirstResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("format"))
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		require.Equal(t, "埼玉県狭山市入曽1-1", r.URL.Query().Get("q"))
		require.Equal(t, "lapin-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"35.853","lon":"139.412"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL+"/", "lapin-test", srv.Client())
	p, err := g.Lookup(context.Background(), " 埼玉県狭山市入曽1-1 ")
	require.NoError(t, err)
	require.InDelta(t, 35.853, p.Lat, 1e-9)
	require.InDelta(t, 139.412, p.Lng, 1e-9)
}

func TestLookupEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewNominatim(srv.URL, "", srv.Client()).Lookup(context.Background(), "nowhere")
	require.ErrorIs(t, err, ErrNoResult)
}

func TestLookupFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL, "", srv.Client())
	_, err := g.Lookup(context.Background(), "somewhere")
	require.Error(t, err)

	_, err = g.Lookup(context.Background(), "  ")
	require.ErrorIs(t, err, ErrNoResult)
}
