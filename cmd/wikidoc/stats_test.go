package main_test

import (
	"context"
	"testing"

	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/cache"
	main "github.com/gusmmm/wikidoc/cmd/wikidoc"
	"github.com/gusmmm/wikidoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints aggregate statistics", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			StatsFn: func(_ context.Context) (*wikidoc.CollectionStats, error) {
				return &wikidoc.CollectionStats{
					DocumentCount:     3,
					TotalSections:     12,
					TotalWords:        4500,
					TotalCharacters:   27000,
					AverageSections:   4.0,
					MaxHierarchyDepth: 3,
				}, nil
			},
		}
		deps, stdout, _ := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.StatsCmd{}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "Documents:          3")
		assert.Contains(t, output, "Total sections:     12")
		assert.Contains(t, output, "Total words:        4500")
		assert.Contains(t, output, "Avg sections/doc:   4.00")
		assert.Contains(t, output, "Max section depth:  3")
	})

	t.Run("shows helpful message when cache is empty", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			StatsFn: func(_ context.Context) (*wikidoc.CollectionStats, error) {
				return &wikidoc.CollectionStats{}, nil
			},
		}
		deps, stdout, _ := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.StatsCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "No documents cached")
	})

	t.Run("returns error when the store fails", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			StatsFn: func(_ context.Context) (*wikidoc.CollectionStats, error) {
				return nil, wikidoc.Errorf(wikidoc.EUNAVAILABLE, "Datastore unavailable.")
			},
		}
		deps, _, stderr := newDeps(&cache.Orchestrator{Documents: documents})

		cmd := &main.StatsCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, wikidoc.EUNAVAILABLE, wikidoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
