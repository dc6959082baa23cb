package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akowalsk/distill"
	distillhttp "github.com/akowalsk/distill/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements distill.Fetcher.
var _ distill.Fetcher = (*distillhttp.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns response body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>static</body></html>"))
		}))
		defer srv.Close()

		fetcher := distillhttp.NewFetcher()
		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "<html><body>static</body></html>", html)
	})

	t.Run("sends a browser user agent", func(t *testing.T) {
		t.Parallel()

		var ua string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		fetcher := distillhttp.NewFetcher()
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, ua, "Mozilla/5.0")
	})

	t.Run("returns error for non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		fetcher := distillhttp.NewFetcher()
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer srv.Close()

		fetcher := distillhttp.NewFetcher()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, srv.URL)
		require.Error(t, err)
	})
}
