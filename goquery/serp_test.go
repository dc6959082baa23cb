package goquery_test

import (
	"strings"
	"testing"

	"github.com/akowalsk/distill"
	"github.com/akowalsk/distill/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractResults(t *testing.T) {
	t.Parallel()

	t.Run("extracts results from modern markup", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<article data-testid="result">
				<h2><a data-testid="result-title-a" href="https://go.dev/doc">Go Documentation</a></h2>
				<div data-result="snippet">Official Go documentation and tutorials.</div>
			</article>
			<article data-testid="result">
				<h2><a data-testid="result-title-a" href="https://go.dev/blog">The Go Blog</a></h2>
				<div data-result="snippet">News from the Go project.</div>
			</article>
		</body></html>`

		results, err := goquery.ExtractResults(html, 1)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, distill.SearchResult{
			Position: 1,
			Page:     1,
			Title:    "Go Documentation",
			URL:      "https://go.dev/doc",
			BaseURL:  "https://go.dev",
			Snippet:  "Official Go documentation and tutorials.",
		}, results[0])
		assert.Equal(t, 2, results[1].Position)
	})

	t.Run("falls back to legacy result selectors", func(t *testing.T) {
		t.Parallel()

		html := `<div class="result">
			<div class="result__title"><a href="https://example.com/page">Example Page</a></div>
			<div class="result__snippet">A legacy layout snippet.</div>
		</div>`

		results, err := goquery.ExtractResults(html, 3)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Example Page", results[0].Title)
		assert.Equal(t, "https://example.com/page", results[0].URL)
		assert.Equal(t, "A legacy layout snippet.", results[0].Snippet)
		assert.Equal(t, 3, results[0].Page)
	})

	t.Run("skips results without title or URL", func(t *testing.T) {
		t.Parallel()

		html := `<div class="result"><div class="result__snippet">no title here</div></div>
			<div class="result"><h2><a href="https://kept.example">Kept</a></h2></div>`

		results, err := goquery.ExtractResults(html, 1)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Kept", results[0].Title)
	})

	t.Run("recovers snippet from container text when no snippet element matches", func(t *testing.T) {
		t.Parallel()

		html := `<div class="result">
			<h2><a href="https://example.com">Title Here</a></h2>
			<p>Some description text that has no snippet class.</p>
		</div>`

		results, err := goquery.ExtractResults(html, 1)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Some description text that has no snippet class.", results[0].Snippet)
	})

	t.Run("truncates long recovered snippets", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("word ", 100)
		html := `<div class="result"><h2><a href="https://example.com">T</a></h2><p>` + long + `</p></div>`

		results, err := goquery.ExtractResults(html, 1)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, strings.HasSuffix(results[0].Snippet, "..."))
		assert.LessOrEqual(t, len([]rune(results[0].Snippet)), 303)
	})

	t.Run("returns nothing for a page without results", func(t *testing.T) {
		t.Parallel()

		results, err := goquery.ExtractResults(`<html><body><p>no results</p></body></html>`, 1)

		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
