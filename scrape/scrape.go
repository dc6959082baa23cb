// Package scrape orchestrates page scraping: fetching, simplification,
// format conversion, caching, rate limiting, and concurrent batches.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/akowalsk/distill"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs processed in parallel by
// ScrapeAll when Concurrency is not set.
const DefaultConcurrency = 5

// Ensure Service implements distill.PageService at compile time.
var _ distill.PageService = (*Service)(nil)

// Service implements distill.PageService. It fetches pages, reduces them
// to their meaningful content, and serves repeat requests from the cache.
// Cache and Limiter are optional; the rest of the collaborators are
// required.
type Service struct {
	Fetcher   distill.Fetcher
	Cleaner   distill.Cleaner
	Extractor distill.Extractor
	Converter distill.Converter
	Cache     distill.PageCache
	Limiter   distill.DomainLimiter
	Logger    *slog.Logger

	// Concurrency bounds parallel fetches in ScrapeAll.
	Concurrency int

	// RetryDelays overrides the fetch retry backoff, mainly for tests.
	RetryDelays []time.Duration
}

// Scrape fetches url and returns its content in the requested mode.
// A cached page is returned when available unless opts.NoCache is set.
func (s *Service) Scrape(ctx context.Context, rawURL string, mode distill.Mode, opts distill.ScrapeOptions) (*distill.Page, error) {
	host, err := validateScrapeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, distill.Errorf(distill.EINVALID, "unknown scrape mode %q", mode)
	}

	if s.Cache != nil && !opts.NoCache {
		if page, err := s.Cache.Get(ctx, rawURL, mode); err == nil {
			page.FromCache = true
			return page, nil
		} else if distill.ErrorCode(err) != distill.ENOTFOUND {
			s.logger().Warn("cache lookup", "url", rawURL, "err", err)
		}
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, host); err != nil {
			return nil, err
		}
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, s.Fetcher.Fetch, nil, delays)
	if err != nil {
		return nil, err
	}

	content, err := s.render(html, mode)
	if err != nil {
		return nil, err
	}

	page := &distill.Page{
		URL:         rawURL,
		Mode:        mode,
		Content:     content,
		ContentHash: ContentHash(content),
		FetchedAt:   time.Now().UTC(),
	}

	if s.Cache != nil && !opts.NoCache {
		if err := s.Cache.Put(ctx, page); err != nil {
			s.logger().Warn("cache store", "url", rawURL, "err", err)
		}
	}

	return page, nil
}

// render produces the page content for a mode from raw fetched HTML.
func (s *Service) render(html string, mode distill.Mode) (string, error) {
	if mode == distill.ModeArticle {
		extracted, err := s.Extractor.Extract(html)
		if err != nil {
			return "", err
		}
		html = extracted.ContentHTML
	}

	cleaned, err := s.Cleaner.Clean(html)
	if err != nil {
		return "", err
	}

	if mode == distill.ModeMarkdown {
		return s.Converter.Convert(cleaned)
	}
	return cleaned, nil
}

// ScrapeAll scrapes urls concurrently, preserving input order in the
// returned items. Per-URL failures are recorded on their item; only
// context cancellation aborts the batch.
func (s *Service) ScrapeAll(ctx context.Context, urls []string, mode distill.Mode, opts distill.ScrapeOptions, progress distill.ProgressFunc) ([]distill.BatchItem, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	items := make([]distill.BatchItem, len(urls))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			page, err := s.Scrape(gctx, u, mode, opts)
			items[i] = distill.BatchItem{URL: u, Page: page, Err: err}

			if progress != nil {
				progress(distill.ProgressEvent{
					URL:       u,
					Completed: int(completed.Add(1)),
					Total:     len(urls),
					Err:       err,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// ContentHash computes the xxhash digest of content, hex encoded.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// validateScrapeURL checks that raw is an absolute http(s) URL and
// returns its host for rate limiting.
func validateScrapeURL(raw string) (string, error) {
	if raw == "" {
		return "", distill.Errorf(distill.EINVALID, "url required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", distill.Errorf(distill.EINVALID, "invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", distill.Errorf(distill.EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	return u.Host, nil
}
