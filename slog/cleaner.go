package slog

import (
	"log/slog"
	"time"

	"github.com/akowalsk/distill"
)

// Ensure LoggingCleaner implements distill.Cleaner.
var _ distill.Cleaner = (*LoggingCleaner)(nil)

// LoggingCleaner wraps a Cleaner with debug logging. The before and
// after sizes show how much a page shrank during simplification.
type LoggingCleaner struct {
	next   distill.Cleaner
	logger *slog.Logger
}

// NewLoggingCleaner creates a new LoggingCleaner.
func NewLoggingCleaner(next distill.Cleaner, logger *slog.Logger) *LoggingCleaner {
	return &LoggingCleaner{next: next, logger: logger}
}

// Clean delegates to the wrapped cleaner and logs the operation.
func (c *LoggingCleaner) Clean(html string) (cleaned string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("clean",
			"bytes_in", len(html),
			"bytes_out", len(cleaned),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clean(html)
}
