package rod

import (
	"context"
	"time"

	"github.com/akowalsk/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultSettleDelay is how long Fetch waits after load for dynamic
// content to render.
const DefaultSettleDelay = 2 * time.Second

// Ensure Fetcher implements distill.Fetcher at compile time.
var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using the shared browser.
// Page interactions are serialized by the Manager, so Fetcher is safe
// for concurrent use by multiple goroutines.
type Fetcher struct {
	mgr    *Manager
	settle time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithSettleDelay sets the wait after page load for dynamic content.
// Defaults to DefaultSettleDelay.
func WithSettleDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// NewFetcher creates a Fetcher on top of the shared browser manager.
func NewFetcher(mgr *Manager, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		mgr:    mgr,
		settle: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL, waits for the page to load and settle,
// and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var html string
	err := f.mgr.Do(func(browser *rod.Browser) error {
		page, err := browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return err
		}
		defer page.Close()

		page = page.Context(ctx)

		if err := page.Navigate(url); err != nil {
			return err
		}
		if err := page.WaitLoad(); err != nil {
			return err
		}

		// Additional wait for dynamic content
		if err := sleep(ctx, f.settle); err != nil {
			return err
		}

		html, err = page.HTML()
		return err
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// Close releases fetcher resources. The shared browser is owned by the
// Manager, so this is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

// sleep waits for d or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
