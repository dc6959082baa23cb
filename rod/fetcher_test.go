//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akowalsk/distill"
	"github.com/akowalsk/distill/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements distill.Fetcher.
var _ distill.Fetcher = (*rod.Fetcher)(nil)

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Server that never responds - let context cancellation kick in
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {}
	}))
	defer srv.Close()

	mgr, err := rod.NewManager()
	require.NoError(t, err)
	defer mgr.Close()

	fetcher := rod.NewFetcher(mgr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err = fetcher.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add content
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	mgr, err := rod.NewManager()
	require.NoError(t, err)
	defer mgr.Close()

	fetcher := rod.NewFetcher(mgr, rod.WithSettleDelay(100*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	html, err := fetcher.Fetch(ctx, srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "JavaScript Rendered")
}

func TestManager_HealthyAndRestart(t *testing.T) {
	t.Parallel()

	mgr, err := rod.NewManager()
	require.NoError(t, err)
	defer mgr.Close()

	assert.True(t, mgr.Healthy())

	firstPID := mgr.LauncherPID()
	require.NoError(t, mgr.Restart())

	assert.True(t, mgr.Healthy())
	assert.NotEqual(t, firstPID, mgr.LauncherPID())
}

func TestManager_UnavailableAfterClose(t *testing.T) {
	t.Parallel()

	mgr, err := rod.NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Close())

	assert.False(t, mgr.Healthy())

	fetcher := rod.NewFetcher(mgr)
	_, err = fetcher.Fetch(context.Background(), "https://example.com")
	assert.Equal(t, distill.EUNAVAILABLE, distill.ErrorCode(err))
}
