package rod

import (
	"context"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akowalsk/distill"
	"github.com/akowalsk/distill/bloom"
	"github.com/akowalsk/distill/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	searchBase = "https://duckduckgo.com/"

	// MaxSearchPages caps pagination depth to prevent abuse.
	MaxSearchPages = 10

	// resultsTimeout bounds the wait for the first results to appear.
	resultsTimeout = 15 * time.Second

	// DuckDuckGo appends new results in place, so loading more takes a
	// moment before the DOM reflects them.
	loadMoreSettle = 4 * time.Second
	scrollSettle   = 3 * time.Second
	betweenPages   = time.Second

	// resultsOffsetStep is DuckDuckGo's pagination offset increment for
	// the s= query parameter.
	resultsOffsetStep = 30
)

// resultsSelector matches result containers across DuckDuckGo frontends.
const resultsSelector = `[data-testid="result"], .web-result, .result`

// Ensure Searcher implements distill.Searcher at compile time.
var _ distill.Searcher = (*Searcher)(nil)

// Searcher runs DuckDuckGo searches on the shared browser. DuckDuckGo
// loads further result pages into the same DOM, so every iteration
// re-extracts the full result list and a Bloom filter drops URLs already
// collected. Page interactions are serialized by the Manager.
type Searcher struct {
	mgr *Manager
}

// NewSearcher creates a Searcher on top of the shared browser manager.
func NewSearcher(mgr *Manager) *Searcher {
	return &Searcher{mgr: mgr}
}

// Search performs a DuckDuckGo search and collects results from up to
// maxPages result pages. Positions are continuous across pages and the
// query is recorded on every result.
func (s *Searcher) Search(ctx context.Context, query string, maxPages int) ([]distill.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, distill.Errorf(distill.EINVALID, "search query required")
	}
	if maxPages < 1 {
		maxPages = 1
	} else if maxPages > MaxSearchPages {
		maxPages = MaxSearchPages
	}

	var all []distill.SearchResult
	err := s.mgr.Do(func(browser *rod.Browser) error {
		page, err := browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return err
		}
		defer page.Close()

		page = page.Context(ctx)

		if err := page.Navigate(searchURL(query)); err != nil {
			return err
		}
		if err := page.WaitLoad(); err != nil {
			return err
		}

		seen := bloom.NewFilter(1024, 0.001)

		for current := 1; current <= maxPages; current++ {
			if _, err := page.Timeout(resultsTimeout).Element(resultsSelector); err != nil {
				if current == 1 {
					return distill.Errorf(distill.ENOTFOUND, "no search results for %q", query)
				}
				break
			}

			html, err := page.HTML()
			if err != nil {
				return err
			}
			results, err := goquery.ExtractResults(html, current)
			if err != nil {
				return err
			}

			added := 0
			for _, r := range results {
				if seen.Seen(r.URL) {
					continue
				}
				r.Position = len(all) + 1
				r.Page = current
				r.Query = query
				all = append(all, r)
				added++
			}
			if added == 0 {
				break
			}

			if current < maxPages {
				if !s.nextPage(ctx, page) {
					break
				}
				if err := sleep(ctx, betweenPages); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// nextPage tries to load the next batch of results. Strategies in order:
// click the more-results button, click any button that looks like a
// load-more control, scroll to the bottom and check for growth, and
// finally bump the s= offset in the URL.
func (s *Searcher) nextPage(ctx context.Context, page *rod.Page) bool {
	if s.clickMoreResults(ctx, page) {
		return true
	}
	if s.scrollForMore(ctx, page) {
		return true
	}
	return s.bumpOffset(ctx, page)
}

// clickMoreResults clicks the load-more button if one is present.
// Button text keywords cover DuckDuckGo's localized frontends.
func (s *Searcher) clickMoreResults(ctx context.Context, page *rod.Page) bool {
	obj, err := page.Eval(`() => {
		const byID = document.querySelector('button#more-results, #more-results');
		if (byID && !byID.disabled) {
			byID.click();
			return true;
		}
		const keywords = ['more', 'davantage', 'más', 'mehr', 'più', 'load', 'show'];
		for (const btn of document.querySelectorAll('button')) {
			const text = (btn.textContent || '').toLowerCase();
			if (btn.disabled) continue;
			if (keywords.some(k => text.includes(k))) {
				btn.click();
				return true;
			}
		}
		return false;
	}`)
	if err != nil || !obj.Value.Bool() {
		return false
	}
	return sleep(ctx, loadMoreSettle) == nil
}

// scrollForMore scrolls to the bottom and reports whether the page grew,
// which indicates new content loaded.
func (s *Searcher) scrollForMore(ctx context.Context, page *rod.Page) bool {
	before, err := page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return false
	}
	if _, err := page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return false
	}
	if sleep(ctx, scrollSettle) != nil {
		return false
	}
	after, err := page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return false
	}
	return after.Value.Int() > before.Value.Int()
}

// bumpOffset advances the s= pagination offset in the page URL.
func (s *Searcher) bumpOffset(ctx context.Context, page *rod.Page) bool {
	info, err := page.Info()
	if err != nil {
		return false
	}
	next, err := nextOffsetURL(info.URL)
	if err != nil {
		return false
	}
	if err := page.Navigate(next); err != nil {
		return false
	}
	if err := page.WaitLoad(); err != nil {
		return false
	}
	return sleep(ctx, loadMoreSettle) == nil
}

// nextOffsetURL returns current with its s= offset advanced by one step.
func nextOffsetURL(current string) (string, error) {
	u, err := neturl.Parse(current)
	if err != nil {
		return "", err
	}
	q := u.Query()
	offset := 0
	if v := q.Get("s"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil {
			offset = 0
		}
	}
	q.Set("s", strconv.Itoa(offset+resultsOffsetStep))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// searchURL builds the search URL for a query. Double quotes confuse
// DuckDuckGo's URL handling and are stripped.
func searchURL(query string) string {
	clean := strings.ReplaceAll(query, `"`, "")
	return searchBase + "?q=" + neturl.QueryEscape(clean)
}
