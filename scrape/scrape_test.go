package scrape_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akowalsk/distill"
	"github.com/akowalsk/distill/mock"
	"github.com/akowalsk/distill/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDelays disables retry backoff in tests.
var noDelays = []time.Duration{}

func newService() *scrape.Service {
	return &scrape.Service{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html><body><p>fetched</p></body></html>", nil
			},
		},
		Cleaner: &mock.Cleaner{
			CleanFn: func(html string) (string, error) {
				return "<section>cleaned</section>", nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "converted", nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*distill.ExtractResult, error) {
				return &distill.ExtractResult{Title: "Title", ContentHTML: "<p>article</p>"}, nil
			},
		},
		RetryDelays: noDelays,
	}
}

func TestService_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("raw mode returns cleaned HTML", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		page, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeRaw, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.Equal(t, "<section>cleaned</section>", page.Content)
		assert.Equal(t, distill.ModeRaw, page.Mode)
		assert.Equal(t, "https://example.com", page.URL)
		assert.NotEmpty(t, page.ContentHash)
		assert.False(t, page.FromCache)
		assert.False(t, page.FetchedAt.IsZero())
	})

	t.Run("markdown mode converts cleaned HTML", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		var converted string
		svc.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				converted = html
				return "# md", nil
			},
		}

		page, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeMarkdown, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.Equal(t, "<section>cleaned</section>", converted, "converter receives cleaned HTML")
		assert.Equal(t, "# md", page.Content)
	})

	t.Run("article mode cleans extracted content", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		var cleanedInput string
		svc.Cleaner = &mock.Cleaner{
			CleanFn: func(html string) (string, error) {
				cleanedInput = html
				return "<section>article</section>", nil
			},
		}

		page, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeArticle, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.Equal(t, "<p>article</p>", cleanedInput, "cleaner receives extracted content")
		assert.Equal(t, "<section>article</section>", page.Content)
	})

	t.Run("rejects invalid URLs", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		for _, raw := range []string{"", "not-a-url", "ftp://example.com", "/relative/path"} {
			_, err := svc.Scrape(context.Background(), raw, distill.ModeRaw, distill.ScrapeOptions{})
			assert.Equal(t, distill.EINVALID, distill.ErrorCode(err), "url %q", raw)
		}
	})

	t.Run("rejects unknown modes", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		_, err := svc.Scrape(context.Background(), "https://example.com", distill.Mode("pdf"), distill.ScrapeOptions{})
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("serves cache hits without fetching", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		fetched := false
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetched = true
				return "", errors.New("should not fetch")
			},
		}
		svc.Cache = &mock.PageCache{
			GetFn: func(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error) {
				return &distill.Page{URL: url, Mode: mode, Content: "cached"}, nil
			},
		}

		page, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeRaw, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.False(t, fetched)
		assert.Equal(t, "cached", page.Content)
		assert.True(t, page.FromCache)
	})

	t.Run("stores fetched pages in the cache", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		var stored *distill.Page
		svc.Cache = &mock.PageCache{
			GetFn: func(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error) {
				return nil, distill.Errorf(distill.ENOTFOUND, "not cached")
			},
			PutFn: func(ctx context.Context, page *distill.Page) error {
				stored = page
				return nil
			},
		}

		page, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeRaw, distill.ScrapeOptions{})

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, page.Content, stored.Content)
	})

	t.Run("nocache bypasses lookup and store", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Cache = &mock.PageCache{
			GetFn: func(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error) {
				t.Error("cache should not be read")
				return nil, distill.Errorf(distill.ENOTFOUND, "not cached")
			},
			PutFn: func(ctx context.Context, page *distill.Page) error {
				t.Error("cache should not be written")
				return nil
			},
		}

		_, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeRaw, distill.ScrapeOptions{NoCache: true})
		require.NoError(t, err)
	})

	t.Run("cache store failures do not fail the scrape", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Cache = &mock.PageCache{
			GetFn: func(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error) {
				return nil, distill.Errorf(distill.ENOTFOUND, "not cached")
			},
			PutFn: func(ctx context.Context, page *distill.Page) error {
				return errors.New("disk full")
			},
		}

		page, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeRaw, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.Equal(t, "<section>cleaned</section>", page.Content)
	})

	t.Run("retries transient fetch failures", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		attempts := 0
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				attempts++
				if attempts < 3 {
					return "", errors.New("connection reset")
				}
				return "<html><body>ok</body></html>", nil
			},
		}
		svc.RetryDelays = []time.Duration{time.Millisecond, time.Millisecond}

		_, err := svc.Scrape(context.Background(), "https://example.com", distill.ModeRaw, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("waits on the domain limiter with the URL host", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		var domain string
		svc.Limiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, d string) error {
				domain = d
				return nil
			},
		}

		_, err := svc.Scrape(context.Background(), "https://example.com/page", distill.ModeRaw, distill.ScrapeOptions{})

		require.NoError(t, err)
		assert.Equal(t, "example.com", domain)
	})
}

func TestService_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order and records per-URL failures", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if strings.Contains(url, "bad") {
					return "", errors.New("boom")
				}
				return "<html><body>" + url + "</body></html>", nil
			},
		}

		urls := []string{"https://a.example.com", "https://bad.example.com", "https://c.example.com"}
		items, err := svc.ScrapeAll(context.Background(), urls, distill.ModeRaw, distill.ScrapeOptions{}, nil)

		require.NoError(t, err)
		require.Len(t, items, 3)
		for i, item := range items {
			assert.Equal(t, urls[i], item.URL)
		}
		assert.NoError(t, items[0].Err)
		assert.Error(t, items[1].Err)
		assert.NoError(t, items[2].Err)
		assert.Nil(t, items[1].Page)
		assert.NotNil(t, items[2].Page)
	})

	t.Run("reports progress for every URL", func(t *testing.T) {
		t.Parallel()

		svc := newService()

		var mu sync.Mutex
		var events []distill.ProgressEvent
		progress := func(e distill.ProgressEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}

		urls := []string{"https://a.example.com", "https://b.example.com"}
		_, err := svc.ScrapeAll(context.Background(), urls, distill.ModeRaw, distill.ScrapeOptions{}, progress)

		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, e := range events {
			assert.Equal(t, 2, e.Total)
		}
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		svc := newService()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ScrapeAll(ctx, []string{"https://a.example.com"}, distill.ModeRaw, distill.ScrapeOptions{}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, scrape.ContentHash("hello"), scrape.ContentHash("hello"))
	assert.NotEqual(t, scrape.ContentHash("hello"), scrape.ContentHash("world"))
	assert.Len(t, scrape.ContentHash("hello"), 16)
}
