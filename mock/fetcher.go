package mock

import (
	"context"

	"github.com/gusmmm/wikidoc"
)

var _ wikidoc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of wikidoc.Fetcher.
type Fetcher struct {
	FetchDocumentFn func(ctx context.Context, topic string) (*wikidoc.RawDocument, error)
	CloseFn         func() error
}

func (f *Fetcher) FetchDocument(ctx context.Context, topic string) (*wikidoc.RawDocument, error) {
	return f.FetchDocumentFn(ctx, topic)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
