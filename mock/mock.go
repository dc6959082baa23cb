// Package mock provides function-field test doubles for the service
// interfaces defined in the root package.
package mock

import (
	"context"
	"time"

	"github.com/akowalsk/distill"
)

var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of distill.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ distill.Browser = (*Browser)(nil)

// Browser is a mock implementation of distill.Browser.
type Browser struct {
	HealthyFn func() bool
	RestartFn func() error
}

func (b *Browser) Healthy() bool {
	return b.HealthyFn()
}

func (b *Browser) Restart() error {
	return b.RestartFn()
}

var _ distill.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of distill.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, maxPages int) ([]distill.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, maxPages int) ([]distill.SearchResult, error) {
	return s.SearchFn(ctx, query, maxPages)
}

var _ distill.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of distill.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (string, error)
}

func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanFn(html)
}

var _ distill.Converter = (*Converter)(nil)

// Converter is a mock implementation of distill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ distill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of distill.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*distill.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*distill.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ distill.PageCache = (*PageCache)(nil)

// PageCache is a mock implementation of distill.PageCache.
type PageCache struct {
	GetFn   func(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error)
	PutFn   func(ctx context.Context, page *distill.Page) error
	PurgeFn func(ctx context.Context, olderThan time.Time) (int, error)
}

func (c *PageCache) Get(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error) {
	return c.GetFn(ctx, url, mode)
}

func (c *PageCache) Put(ctx context.Context, page *distill.Page) error {
	return c.PutFn(ctx, page)
}

func (c *PageCache) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	return c.PurgeFn(ctx, olderThan)
}

var _ distill.PageService = (*PageService)(nil)

// PageService is a mock implementation of distill.PageService.
type PageService struct {
	ScrapeFn    func(ctx context.Context, url string, mode distill.Mode, opts distill.ScrapeOptions) (*distill.Page, error)
	ScrapeAllFn func(ctx context.Context, urls []string, mode distill.Mode, opts distill.ScrapeOptions, progress distill.ProgressFunc) ([]distill.BatchItem, error)
}

func (s *PageService) Scrape(ctx context.Context, url string, mode distill.Mode, opts distill.ScrapeOptions) (*distill.Page, error) {
	return s.ScrapeFn(ctx, url, mode, opts)
}

func (s *PageService) ScrapeAll(ctx context.Context, urls []string, mode distill.Mode, opts distill.ScrapeOptions, progress distill.ProgressFunc) ([]distill.BatchItem, error) {
	return s.ScrapeAllFn(ctx, urls, mode, opts, progress)
}

var _ distill.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of distill.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
