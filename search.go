package distill

import "context"

// SearchResult represents a single search engine result.
type SearchResult struct {
	Position int    `json:"position"`
	Page     int    `json:"page"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	BaseURL  string `json:"base_url"`
	Snippet  string `json:"snippet"`
	Query    string `json:"query,omitempty"`
}

// Searcher runs a web search and extracts results across result pages.
type Searcher interface {
	// Search performs a search and returns results from up to maxPages
	// result pages. Positions are continuous across pages.
	// Returns EINVALID if the query is blank.
	Search(ctx context.Context, query string, maxPages int) ([]SearchResult, error)
}
