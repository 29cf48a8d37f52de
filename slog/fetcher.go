package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gusmmm/wikidoc"
)

// Ensure LoggingFetcher implements wikidoc.Fetcher.
var _ wikidoc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   wikidoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next wikidoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchDocument delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) FetchDocument(ctx context.Context, topic string) (raw *wikidoc.RawDocument, err error) {
	defer func(begin time.Time) {
		sections := 0
		if raw != nil {
			sections = len(raw.Sections)
		}
		f.logger.Info("fetch document",
			"topic", topic,
			"sections", sections,
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return f.next.FetchDocument(ctx, topic)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
