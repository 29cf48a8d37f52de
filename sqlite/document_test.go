package sqlite_test

import (
	"context"
	"testing"

	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(key, title string) *wikidoc.Document {
	raw := &wikidoc.RawDocument{
		Title:   title,
		URL:     "https://en.wikipedia.org/wiki/" + title,
		Summary: "Overview of " + title + ".",
		Sections: []wikidoc.RawSection{
			{Title: "History", Level: 2, Content: "The history of " + title + "."},
			{Title: "Details", Level: 3, Content: "More detail about " + title + "."},
		},
	}
	return wikidoc.Normalize(key, raw)
}

func TestDocumentService_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates document with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := newTestDocument("Turing Award", "Turing Award")

		err := svc.CreateDocument(ctx, doc)
		require.NoError(t, err)

		assert.NotEmpty(t, doc.ID, "ID should be generated")
		assert.False(t, doc.ExtractedAt.IsZero(), "ExtractedAt should be set")
	})

	t.Run("returns error for invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &wikidoc.Document{} // missing required fields

		err := svc.CreateDocument(ctx, doc)
		require.Error(t, err)
		assert.Equal(t, wikidoc.EINVALID, wikidoc.ErrorCode(err))
	})

	t.Run("rejects duplicate keys with ECONFLICT", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		first := newTestDocument("Malaria", "Malaria")
		require.NoError(t, svc.CreateDocument(ctx, first))

		second := newTestDocument("  MALARIA ", "Malaria")
		err := svc.CreateDocument(ctx, second)
		require.Error(t, err)
		assert.Equal(t, wikidoc.ECONFLICT, wikidoc.ErrorCode(err))
	})
}

func TestDocumentService_FindDocumentByKey(t *testing.T) {
	t.Parallel()

	t.Run("returns document with sections in order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := newTestDocument("Turing Award", "Turing Award")
		require.NoError(t, svc.CreateDocument(ctx, doc))

		found, err := svc.FindDocumentByKey(ctx, "turing award")
		require.NoError(t, err)
		assert.Equal(t, doc.ID, found.ID)
		assert.Equal(t, doc.Key, found.Key)
		assert.Equal(t, doc.Title, found.Title)
		assert.Equal(t, doc.Summary, found.Summary)
		assert.Equal(t, doc.ContentHash, found.ContentHash)
		require.Len(t, found.Sections, 2)
		assert.Equal(t, "History", found.Sections[0].Title)
		assert.Equal(t, "Details", found.Sections[1].Title)
		assert.Equal(t, doc.Statistics, found.Statistics)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocumentByKey(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, wikidoc.ENOTFOUND, wikidoc.ErrorCode(err))
	})
}

func TestDocumentService_FindDocumentByID(t *testing.T) {
	t.Parallel()

	t.Run("returns document when found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := newTestDocument("Malaria", "Malaria")
		require.NoError(t, svc.CreateDocument(ctx, doc))

		found, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.Key, found.Key)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocumentByID(context.Background(), "no-such-id")
		require.Error(t, err)
		assert.Equal(t, wikidoc.ENOTFOUND, wikidoc.ErrorCode(err))
	})
}

func TestDocumentService_ListDocuments(t *testing.T) {
	t.Parallel()

	t.Run("returns summaries with statistics", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateDocument(ctx, newTestDocument("Malaria", "Malaria")))
		require.NoError(t, svc.CreateDocument(ctx, newTestDocument("Turing Award", "Turing Award")))

		summaries, err := svc.ListDocuments(ctx, 0)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		for _, sum := range summaries {
			require.NotNil(t, sum.Statistics)
			assert.Equal(t, 2, sum.Statistics.TotalSections)
		}
	})

	t.Run("honors the limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateDocument(ctx, newTestDocument("Alpha", "Alpha")))
		require.NoError(t, svc.CreateDocument(ctx, newTestDocument("Beta", "Beta")))
		require.NoError(t, svc.CreateDocument(ctx, newTestDocument("Gamma", "Gamma")))

		summaries, err := svc.ListDocuments(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, summaries, 2)
	})
}

func TestDocumentService_SearchContent(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*sqlite.DocumentService, context.Context) {
		t.Helper()
		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		summaryDoc := wikidoc.Normalize("Alpha Topic", &wikidoc.RawDocument{
			Title:   "Alpha Topic",
			Summary: "The alpha particle appears here.",
			Sections: []wikidoc.RawSection{
				{Title: "Unrelated", Level: 2, Content: "Nothing relevant."},
			},
		})
		require.NoError(t, svc.CreateDocument(ctx, summaryDoc))

		sectionDoc := wikidoc.Normalize("Beta Topic", &wikidoc.RawDocument{
			Title:   "Beta Topic",
			Summary: "No match in this overview.",
			Sections: []wikidoc.RawSection{
				{Title: "Physics", Level: 2, Content: "Alpha decay is discussed here."},
			},
		})
		require.NoError(t, svc.CreateDocument(ctx, sectionDoc))

		return svc, ctx
	}

	t.Run("summary scope excludes section-only matches", func(t *testing.T) {
		t.Parallel()

		svc, ctx := setup(t)

		results, err := svc.SearchContent(ctx, wikidoc.SearchOptions{Term: "alpha", Scope: wikidoc.ScopeSummary})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "alpha topic", results[0].Document.Key)
		require.Len(t, results[0].Matches, 1)
		assert.Equal(t, wikidoc.ScopeSummary, results[0].Matches[0].Scope)
		assert.Contains(t, results[0].Matches[0].Excerpt, "alpha particle")
	})

	t.Run("sections scope excludes summary-only matches", func(t *testing.T) {
		t.Parallel()

		svc, ctx := setup(t)

		results, err := svc.SearchContent(ctx, wikidoc.SearchOptions{Term: "alpha", Scope: wikidoc.ScopeSections})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "beta topic", results[0].Document.Key)
		require.Len(t, results[0].Matches, 1)
		assert.Equal(t, "Physics", results[0].Matches[0].SectionTitle)
	})

	t.Run("all scope finds both with one match per document", func(t *testing.T) {
		t.Parallel()

		svc, ctx := setup(t)

		results, err := svc.SearchContent(ctx, wikidoc.SearchOptions{Term: "ALPHA", Scope: wikidoc.ScopeAll})
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.Len(t, r.Matches, 1, "matches must be deduplicated per document")
		}
	})

	t.Run("folds case beyond ASCII", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := wikidoc.Normalize("Coffee Culture", &wikidoc.RawDocument{
			Title:   "Coffee Culture",
			Summary: "The CAFÉ is a social institution.",
			Sections: []wikidoc.RawSection{
				{Title: "History", Level: 2, Content: "Coffee houses spread through Europe."},
			},
		})
		require.NoError(t, svc.CreateDocument(ctx, doc))

		results, err := svc.SearchContent(ctx, wikidoc.SearchOptions{Term: "café", Scope: wikidoc.ScopeSummary})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "coffee culture", results[0].Document.Key)
		assert.Contains(t, results[0].Matches[0].Excerpt, "CAFÉ")
	})

	t.Run("honors the limit", func(t *testing.T) {
		t.Parallel()

		svc, ctx := setup(t)

		results, err := svc.SearchContent(ctx, wikidoc.SearchOptions{Term: "alpha", Scope: wikidoc.ScopeAll, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("no matches returns empty result", func(t *testing.T) {
		t.Parallel()

		svc, ctx := setup(t)

		results, err := svc.SearchContent(ctx, wikidoc.SearchOptions{Term: "zeppelin", Scope: wikidoc.ScopeAll})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestDocumentService_Stats(t *testing.T) {
	t.Parallel()

	t.Run("sums stored statistics", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		a := newTestDocument("Alpha", "Alpha")
		b := newTestDocument("Beta", "Beta")
		require.NoError(t, svc.CreateDocument(ctx, a))
		require.NoError(t, svc.CreateDocument(ctx, b))

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.DocumentCount)
		assert.Equal(t, a.Statistics.TotalSections+b.Statistics.TotalSections, stats.TotalSections)
		assert.Equal(t, a.Statistics.TotalWords+b.Statistics.TotalWords, stats.TotalWords)
		assert.Equal(t, a.Statistics.TotalCharacters+b.Statistics.TotalCharacters, stats.TotalCharacters)
		assert.Equal(t, 3, stats.MaxHierarchyDepth)
		assert.InDelta(t, 2.0, stats.AverageSections, 0.001)
	})

	t.Run("empty collection", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 0, stats.DocumentCount)
		assert.Equal(t, 0, stats.TotalSections)
		assert.Equal(t, 0, stats.MaxHierarchyDepth)
	})
}
