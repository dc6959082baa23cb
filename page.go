package distill

import (
	"context"
	"time"
)

// Mode selects the output format of a scrape.
type Mode string

// Supported scrape modes.
const (
	// ModeRaw returns the simplified HTML of the whole page body.
	ModeRaw Mode = "raw"

	// ModeMarkdown converts the simplified HTML to Markdown.
	ModeMarkdown Mode = "markdown"

	// ModeArticle extracts the main content before simplification,
	// discarding navigation, sidebars, and other boilerplate.
	ModeArticle Mode = "article"
)

// Valid reports whether m is a known scrape mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeRaw, ModeMarkdown, ModeArticle:
		return true
	}
	return false
}

// Page represents a scraped and simplified page.
type Page struct {
	URL         string    `json:"url"`
	Mode        Mode      `json:"mode"`
	Content     string    `json:"content"`
	ContentHash string    `json:"content_hash"`
	FetchedAt   time.Time `json:"fetched_at"`

	// FromCache reports whether the page was served from the cache
	// rather than fetched. Not persisted.
	FromCache bool `json:"from_cache,omitempty"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if !p.Mode.Valid() {
		return Errorf(EINVALID, "unknown scrape mode %q", p.Mode)
	}
	return nil
}

// ScrapeOptions adjusts a single scrape operation.
type ScrapeOptions struct {
	// NoCache bypasses the page cache for both lookup and storage.
	NoCache bool
}

// BatchItem is the per-URL outcome of a batch scrape.
type BatchItem struct {
	URL  string
	Page *Page
	Err  error
}

// ProgressEvent reports progress during a batch scrape.
type ProgressEvent struct {
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is called as batch items complete.
type ProgressFunc func(ProgressEvent)

// PageService scrapes pages and reduces them to their meaningful content.
type PageService interface {
	// Scrape fetches the URL, simplifies it, and returns the page in the
	// requested mode. Results may be served from a cache unless opts
	// disable it. Returns EINVALID for malformed URLs or unknown modes.
	Scrape(ctx context.Context, url string, mode Mode, opts ScrapeOptions) (*Page, error)

	// ScrapeAll scrapes multiple URLs concurrently. Every URL yields a
	// BatchItem in input order; per-URL failures are recorded on the
	// item rather than aborting the batch. The returned error is non-nil
	// only if the context was canceled.
	ScrapeAll(ctx context.Context, urls []string, mode Mode, opts ScrapeOptions, progress ProgressFunc) ([]BatchItem, error)
}

// PageCache persists scraped pages keyed by URL and mode.
type PageCache interface {
	// Get retrieves a cached page. Returns ENOTFOUND on a miss.
	Get(ctx context.Context, url string, mode Mode) (*Page, error)

	// Put stores a page, replacing any existing entry for its URL and mode.
	Put(ctx context.Context, page *Page) error

	// Purge removes entries fetched before the cutoff and returns the
	// number of entries removed.
	Purge(ctx context.Context, olderThan time.Time) (int, error)
}
