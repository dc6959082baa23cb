// Package goquery extracts search results from search engine result
// pages using CSS selector fallback lists. DuckDuckGo changes its markup
// between frontend versions, so each field is located by trying a list
// of selectors in order until one matches.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/akowalsk/distill"
)

// maxSnippetLen caps snippets recovered from full result text.
const maxSnippetLen = 300

// Selector fallback lists, most specific first.
var (
	resultSelectors = []string{
		`[data-testid="result"]`, // modern DuckDuckGo
		`.web-result`,            // alternative DuckDuckGo
		`.result`,                // fallback
		`article[data-testid="result"]`,
		`.result__body`,
	}

	titleSelectors = []string{
		`h2 a[data-testid="result-title-a"]`, // modern DuckDuckGo
		`h2 a`,
		`h3 a`,
		`a[data-testid="result-title-a"]`,
		`.result__title a`,
		`.result-title a`,
		`.result__a`,
	}

	snippetSelectors = []string{
		`[data-result="snippet"]`,
		`.result__snippet`,
		`.result-snippet`,
		`div[data-testid="result-snippet"]`,
		`span[data-testid="result-snippet"]`,
	}
)

// ExtractResults parses a search result page and returns the results
// found on it. The page number is recorded on each result; positions are
// 1-based within the page and renumbered by the caller for multi-page
// searches. Results missing a title or URL are skipped.
func ExtractResults(html string, page int) ([]distill.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse result page: %v", err)
	}

	var containers *goquery.Selection
	for _, selector := range resultSelectors {
		found := doc.Find(selector)
		if found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil {
		return nil, nil
	}

	var results []distill.SearchResult
	containers.Each(func(_ int, container *goquery.Selection) {
		title, resultURL := extractTitle(container)
		if title == "" || resultURL == "" {
			return
		}

		results = append(results, distill.SearchResult{
			Position: len(results) + 1,
			Page:     page,
			Title:    title,
			URL:      resultURL,
			BaseURL:  baseURL(resultURL),
			Snippet:  extractSnippet(container, title, resultURL),
		})
	})

	return results, nil
}

// extractTitle locates the title link and returns its text and href.
func extractTitle(container *goquery.Selection) (title, href string) {
	for _, selector := range titleSelectors {
		link := container.Find(selector).First()
		if link.Length() == 0 {
			continue
		}
		title = strings.TrimSpace(link.Text())
		if title == "" {
			continue
		}
		href, _ = link.Attr("href")
		return title, href
	}
	return "", ""
}

// extractSnippet locates the result description. When no snippet element
// matches, it falls back to the container's full text with the title and
// URL removed, truncated to maxSnippetLen runes.
func extractSnippet(container *goquery.Selection, title, resultURL string) string {
	for _, selector := range snippetSelectors {
		snippet := strings.TrimSpace(container.Find(selector).First().Text())
		if snippet != "" {
			return snippet
		}
	}

	full := strings.TrimSpace(container.Text())
	full = strings.TrimSpace(strings.ReplaceAll(full, title, ""))
	full = strings.TrimSpace(strings.ReplaceAll(full, resultURL, ""))
	if full == "" {
		return "No description available"
	}

	runes := []rune(full)
	if len(runes) > maxSnippetLen {
		return string(runes[:maxSnippetLen]) + "..."
	}
	return full
}

// baseURL reduces a URL to its scheme and host.
func baseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
