// Package mock provides function-field mock implementations of wikidoc
// interfaces for testing.
package mock

import (
	"context"

	"github.com/gusmmm/wikidoc"
)

var _ wikidoc.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of wikidoc.DocumentService.
type DocumentService struct {
	CreateDocumentFn    func(ctx context.Context, doc *wikidoc.Document) error
	FindDocumentByKeyFn func(ctx context.Context, key string) (*wikidoc.Document, error)
	FindDocumentByIDFn  func(ctx context.Context, id string) (*wikidoc.Document, error)
	ListDocumentsFn     func(ctx context.Context, limit int) ([]*wikidoc.DocumentSummary, error)
	SearchContentFn     func(ctx context.Context, opts wikidoc.SearchOptions) ([]*wikidoc.SearchResult, error)
	StatsFn             func(ctx context.Context) (*wikidoc.CollectionStats, error)
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *wikidoc.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByKey(ctx context.Context, key string) (*wikidoc.Document, error) {
	return s.FindDocumentByKeyFn(ctx, key)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*wikidoc.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) ListDocuments(ctx context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
	return s.ListDocumentsFn(ctx, limit)
}

func (s *DocumentService) SearchContent(ctx context.Context, opts wikidoc.SearchOptions) ([]*wikidoc.SearchResult, error) {
	return s.SearchContentFn(ctx, opts)
}

func (s *DocumentService) Stats(ctx context.Context) (*wikidoc.CollectionStats, error) {
	return s.StatsFn(ctx)
}
