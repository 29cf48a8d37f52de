// Package cache provides the document cache-and-retrieval orchestrator.
// It answers topic queries from the document store when possible and
// populates the store from the external content source on a miss, so the
// store remains the single source of truth for every read path.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/gusmmm/wikidoc"
	"golang.org/x/sync/singleflight"
)

// DefaultFetchTimeout bounds a single cache-fill fetch so a slow upstream
// cannot stall callers indefinitely.
const DefaultFetchTimeout = 30 * time.Second

// DocumentRequest identifies a document either by topic query or by stored
// ID. Exactly one of the two must be set.
type DocumentRequest struct {
	Query string
	ID    string
}

// SectionsData is the payload of a fetch_sections result: the document's
// listing view plus its filtered sections.
type SectionsData struct {
	Document *wikidoc.DocumentSummary `json:"document"`
	Sections []wikidoc.Section        `json:"sections"`
}

// Orchestrator coordinates the document store and the content fetcher. It
// holds no document state of its own: every operation reads or writes
// through the store.
type Orchestrator struct {
	Documents wikidoc.DocumentService
	Fetcher   wikidoc.Fetcher

	// FetchTimeout bounds each cache-fill fetch. Zero uses
	// DefaultFetchTimeout.
	FetchTimeout time.Duration

	// ExcerptWindow is the context window for search excerpts. Zero uses
	// the store's default.
	ExcerptWindow int

	// group collapses concurrent cache fills for the same key so one
	// fetch serves all callers that missed together.
	group singleflight.Group
}

// FetchDocument resolves a document by query or ID, populating the store
// from the content source on a query miss. IDs never trigger a fetch since
// there is no topic string to query the source with.
func (o *Orchestrator) FetchDocument(ctx context.Context, req DocumentRequest) *wikidoc.QueryResult {
	doc, cacheHit, err := o.resolve(ctx, req)
	if err != nil {
		return wikidoc.Fail(wikidoc.OpFetchDocument, err)
	}

	return wikidoc.OK(wikidoc.OpFetchDocument, doc, map[string]any{
		"cacheHit":     cacheHit,
		"key":          doc.Key,
		"sectionCount": len(doc.Sections),
	})
}

// ListDocuments returns summaries of stored documents. When includeStats is
// false the statistics are stripped from each summary to reduce payload.
func (o *Orchestrator) ListDocuments(ctx context.Context, limit int, includeStats bool) *wikidoc.QueryResult {
	summaries, err := o.Documents.ListDocuments(ctx, limit)
	if err != nil {
		return wikidoc.Fail(wikidoc.OpListDocuments, err)
	}

	if !includeStats {
		stripped := make([]*wikidoc.DocumentSummary, len(summaries))
		for i, s := range summaries {
			c := *s
			c.Statistics = nil
			stripped[i] = &c
		}
		summaries = stripped
	}

	return wikidoc.OK(wikidoc.OpListDocuments, summaries, map[string]any{
		"count":        len(summaries),
		"includeStats": includeStats,
	})
}

// FetchSections resolves a document like FetchDocument, then returns its
// sections filtered by a case-insensitive substring match on title. An
// empty filter keeps all sections; a limit of zero keeps all matches.
// Stored statistics are not affected by filtering.
func (o *Orchestrator) FetchSections(ctx context.Context, req DocumentRequest, sectionFilter string, limit int) *wikidoc.QueryResult {
	doc, cacheHit, err := o.resolve(ctx, req)
	if err != nil {
		return wikidoc.Fail(wikidoc.OpFetchSections, err)
	}

	sections := filterSections(doc.Sections, sectionFilter, limit)

	return wikidoc.OK(wikidoc.OpFetchSections, &SectionsData{
		Document: doc.Summarize(),
		Sections: sections,
	}, map[string]any{
		"cacheHit":         cacheHit,
		"sectionsReturned": len(sections),
		"sectionFilter":    sectionFilter,
	})
}

// SearchContent searches stored documents for a case-insensitive substring
// term within the given scope.
func (o *Orchestrator) SearchContent(ctx context.Context, term string, scope wikidoc.SearchScope, limit int) *wikidoc.QueryResult {
	if strings.TrimSpace(term) == "" {
		return wikidoc.Fail(wikidoc.OpSearchContent, wikidoc.Errorf(wikidoc.EINVALID, "search term required"))
	}
	if !scope.Valid() {
		return wikidoc.Fail(wikidoc.OpSearchContent, wikidoc.Errorf(wikidoc.EINVALID, "invalid search scope %q", scope))
	}

	results, err := o.Documents.SearchContent(ctx, wikidoc.SearchOptions{
		Term:          term,
		Scope:         scope,
		Limit:         limit,
		ExcerptWindow: o.ExcerptWindow,
	})
	if err != nil {
		return wikidoc.Fail(wikidoc.OpSearchContent, err)
	}

	return wikidoc.OK(wikidoc.OpSearchContent, results, map[string]any{
		"totalMatches": len(results),
		"scope":        string(scope),
	})
}

// Statistics returns aggregate statistics for the stored collection.
func (o *Orchestrator) Statistics(ctx context.Context) *wikidoc.QueryResult {
	stats, err := o.Documents.Stats(ctx)
	if err != nil {
		return wikidoc.Fail(wikidoc.OpGetStatistics, err)
	}

	return wikidoc.OK(wikidoc.OpGetStatistics, stats, map[string]any{
		"documentCount": stats.DocumentCount,
	})
}

// resolve finds the requested document, filling the cache for query misses.
// The boolean reports whether the document existed before the call.
func (o *Orchestrator) resolve(ctx context.Context, req DocumentRequest) (*wikidoc.Document, bool, error) {
	if (req.Query == "") == (req.ID == "") {
		return nil, false, wikidoc.Errorf(wikidoc.EINVALID, "exactly one of query or id must be provided")
	}

	if req.ID != "" {
		doc, err := o.Documents.FindDocumentByID(ctx, req.ID)
		if err != nil {
			return nil, false, err
		}
		return doc, true, nil
	}

	key := wikidoc.CanonicalKey(req.Query)
	if key == "" {
		return nil, false, wikidoc.Errorf(wikidoc.EINVALID, "query must not be blank")
	}

	doc, err := o.Documents.FindDocumentByKey(ctx, key)
	if err == nil {
		return doc, true, nil
	}
	if wikidoc.ErrorCode(err) != wikidoc.ENOTFOUND {
		return nil, false, err
	}

	v, err, _ := o.group.Do(key, func() (any, error) {
		return o.populate(ctx, key, req.Query)
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*wikidoc.Document), false, nil
}

// populate fetches, normalizes, and persists the document for a key. A
// duplicate-key rejection means another writer filled the cache first; the
// stored document is re-read and returned as success.
func (o *Orchestrator) populate(ctx context.Context, key, topic string) (*wikidoc.Document, error) {
	timeout := o.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := o.Fetcher.FetchDocument(fetchCtx, topic)
	if err != nil {
		if fetchCtx.Err() != nil && wikidoc.ErrorCode(err) == wikidoc.EINTERNAL {
			return nil, wikidoc.Errorf(wikidoc.EFETCH, "fetching %q timed out", topic)
		}
		return nil, err
	}

	doc := wikidoc.Normalize(topic, raw)
	if err := o.Documents.CreateDocument(ctx, doc); err != nil {
		if wikidoc.ErrorCode(err) == wikidoc.ECONFLICT {
			return o.Documents.FindDocumentByKey(ctx, key)
		}
		return nil, err
	}

	return doc, nil
}

// filterSections returns the sections whose titles contain the filter as a
// case-insensitive substring, preserving order and truncating to limit.
func filterSections(sections []wikidoc.Section, filter string, limit int) []wikidoc.Section {
	filtered := make([]wikidoc.Section, 0, len(sections))
	needle := strings.ToLower(filter)

	for _, s := range sections {
		if filter != "" && !strings.Contains(strings.ToLower(s.Title), needle) {
			continue
		}
		filtered = append(filtered, s)
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}

	return filtered
}
