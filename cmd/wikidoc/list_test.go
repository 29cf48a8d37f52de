package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/cache"
	main "github.com/gusmmm/wikidoc/cmd/wikidoc"
	"github.com/gusmmm/wikidoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with id, key, and title", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			ListDocumentsFn: func(_ context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
				return []*wikidoc.DocumentSummary{
					{
						ID:          "doc-1",
						Key:         "malaria",
						Title:       "Malaria",
						SourceURL:   "https://en.wikipedia.org/wiki/Malaria",
						ExtractedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
						Statistics:  &wikidoc.Statistics{TotalSections: 4, TotalWords: 120, HierarchyDepth: 3},
					},
					{
						ID:    "doc-2",
						Key:   "sepsis",
						Title: "Sepsis",
					},
				}, nil
			},
		}
		deps, stdout, _ := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.ListCmd{}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "doc-1")
		assert.Contains(t, output, "malaria")
		assert.Contains(t, output, "Malaria")
		assert.Contains(t, output, "doc-2")
		assert.Contains(t, output, "sepsis")
		// Statistics only shown with --stats
		assert.NotContains(t, output, "words=")
	})

	t.Run("shows statistics with stats flag", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			ListDocumentsFn: func(_ context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
				return []*wikidoc.DocumentSummary{
					{
						ID:         "doc-1",
						Key:        "malaria",
						Title:      "Malaria",
						Statistics: &wikidoc.Statistics{TotalSections: 4, TotalWords: 120, HierarchyDepth: 3},
					},
				}, nil
			},
		}
		deps, stdout, _ := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.ListCmd{Stats: true}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "sections=4")
		assert.Contains(t, output, "words=120")
		assert.Contains(t, output, "depth=3")
	})

	t.Run("shows helpful message when cache is empty", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			ListDocumentsFn: func(_ context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
				return nil, nil
			},
		}
		deps, stdout, _ := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.ListCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "No documents cached")
	})

	t.Run("returns error when the store is unavailable", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			ListDocumentsFn: func(_ context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
				return nil, wikidoc.Errorf(wikidoc.EUNAVAILABLE, "Datastore unavailable.")
			},
		}
		deps, _, stderr := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.ListCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, wikidoc.EUNAVAILABLE, wikidoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
