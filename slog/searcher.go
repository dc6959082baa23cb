package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/akowalsk/distill"
)

// Ensure LoggingSearcher implements distill.Searcher.
var _ distill.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with structured logging.
type LoggingSearcher struct {
	next   distill.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next distill.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string, maxPages int) (results []distill.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"max_pages", maxPages,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, maxPages)
}
