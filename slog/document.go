// Package slog provides logging decorators for wikidoc service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/gusmmm/wikidoc"
)

// Ensure LoggingDocumentService implements wikidoc.DocumentService.
var _ wikidoc.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with debug logging.
type LoggingDocumentService struct {
	next   wikidoc.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next wikidoc.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// CreateDocument delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) CreateDocument(ctx context.Context, doc *wikidoc.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create document",
			"key", doc.Key,
			"sections", len(doc.Sections),
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return s.next.CreateDocument(ctx, doc)
}

// FindDocumentByKey delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) FindDocumentByKey(ctx context.Context, key string) (doc *wikidoc.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find document by key",
			"key", key,
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return s.next.FindDocumentByKey(ctx, key)
}

// FindDocumentByID delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) FindDocumentByID(ctx context.Context, id string) (doc *wikidoc.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find document by id",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return s.next.FindDocumentByID(ctx, id)
}

// ListDocuments delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) ListDocuments(ctx context.Context, limit int) (docs []*wikidoc.DocumentSummary, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list documents",
			"limit", limit,
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return s.next.ListDocuments(ctx, limit)
}

// SearchContent delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) SearchContent(ctx context.Context, opts wikidoc.SearchOptions) (results []*wikidoc.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search content",
			"term", opts.Term,
			"scope", string(opts.Scope),
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return s.next.SearchContent(ctx, opts)
}

// Stats delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) Stats(ctx context.Context) (stats *wikidoc.CollectionStats, err error) {
	defer func(begin time.Time) {
		s.logger.Info("collection stats",
			"duration", time.Since(begin),
			"err", err,
			"code", errCode(err),
		)
	}(time.Now())
	return s.next.Stats(ctx)
}

// errCode returns the taxonomy code for the error, or "" for success.
func errCode(err error) string {
	if err == nil {
		return ""
	}
	return wikidoc.ErrorCode(err)
}
