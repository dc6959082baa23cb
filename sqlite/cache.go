package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akowalsk/distill"
)

// Compile-time interface verification.
var _ distill.PageCache = (*PageCache)(nil)

// PageCache implements distill.PageCache using SQLite. Entries are keyed
// by URL and scrape mode, so the same URL can be cached in several
// output formats.
type PageCache struct {
	db *DB
}

// NewPageCache creates a new PageCache.
func NewPageCache(db *DB) *PageCache {
	return &PageCache{db: db}
}

// Get retrieves a cached page. Returns ENOTFOUND on a miss.
func (c *PageCache) Get(ctx context.Context, url string, mode distill.Mode) (*distill.Page, error) {
	var page distill.Page
	var fetchedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT url, mode, content, content_hash, fetched_at
		FROM pages
		WHERE url = ? AND mode = ?
	`, url, string(mode)).Scan(&page.URL, &page.Mode, &page.Content, &page.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, distill.Errorf(distill.ENOTFOUND, "page not cached")
	}
	if err != nil {
		return nil, err
	}

	page.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}

	return &page, nil
}

// Put stores a page, replacing any existing entry for its URL and mode.
func (c *PageCache) Put(ctx context.Context, page *distill.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO pages (url, mode, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url, mode) DO UPDATE SET
			content = excluded.content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, page.URL, string(page.Mode), page.Content, page.ContentHash, fetchedAt.Format(time.RFC3339))

	return err
}

// Purge removes entries fetched before the cutoff and returns the number
// of entries removed.
func (c *PageCache) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM pages WHERE fetched_at < ?
	`, olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
