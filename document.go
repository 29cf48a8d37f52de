package wikidoc

import (
	"context"
	"time"
)

// Document represents a stored Wikipedia-derived record. Documents are
// created on a cache miss and immutable thereafter; the store is the single
// source of truth and enforces uniqueness of Key.
type Document struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	SourceURL   string     `json:"sourceUrl"`
	Summary     string     `json:"summary"`
	Sections    []Section  `json:"sections"`
	Statistics  Statistics `json:"statistics"`
	ContentHash string     `json:"contentHash"`
	ExtractedAt time.Time  `json:"extractedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Key == "" {
		return Errorf(EINVALID, "document key required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	for i, s := range d.Sections {
		if s.Level < 1 {
			return Errorf(EINVALID, "section %d: level must be at least 1", i)
		}
	}
	return nil
}

// Summarize returns the listing view of the document: identity and
// statistics without the full content.
func (d *Document) Summarize() *DocumentSummary {
	stats := d.Statistics
	return &DocumentSummary{
		ID:          d.ID,
		Key:         d.Key,
		Title:       d.Title,
		SourceURL:   d.SourceURL,
		ExtractedAt: d.ExtractedAt,
		Statistics:  &stats,
	}
}

// Section represents one heading-delimited span of a document. Slice order
// is the document's natural reading order.
type Section struct {
	Title   string `json:"title"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// Statistics holds counts derived from a document's summary and sections.
// They are computed once at write time and never mutated independently.
type Statistics struct {
	TotalWords      int `json:"totalWords"`
	TotalCharacters int `json:"totalCharacters"`
	TotalSections   int `json:"totalSections"`
	HierarchyDepth  int `json:"hierarchyDepth"`
}

// DocumentSummary is a listing view of a document: title and statistics
// only, so listings don't transfer full content. Statistics is nil when the
// caller asked for stats to be stripped.
type DocumentSummary struct {
	ID          string      `json:"id"`
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	SourceURL   string      `json:"sourceUrl"`
	ExtractedAt time.Time   `json:"extractedAt"`
	Statistics  *Statistics `json:"statistics,omitempty"`
}

// CollectionStats aggregates stored per-document statistics across the
// whole collection. Values are summed from each document's Statistics, not
// recomputed from raw text.
type CollectionStats struct {
	DocumentCount     int     `json:"documentCount"`
	TotalSections     int     `json:"totalSections"`
	TotalWords        int     `json:"totalWords"`
	TotalCharacters   int     `json:"totalCharacters"`
	AverageSections   float64 `json:"averageSections"`
	MaxHierarchyDepth int     `json:"maxHierarchyDepth"`
}

// SearchScope selects which document fields a text search inspects.
type SearchScope string

// SearchScope values.
const (
	ScopeSummary  SearchScope = "summary"
	ScopeSections SearchScope = "sections"
	ScopeAll      SearchScope = "all"
)

// Valid reports whether the scope is one of the defined values.
func (s SearchScope) Valid() bool {
	switch s {
	case ScopeSummary, ScopeSections, ScopeAll:
		return true
	}
	return false
}

// SearchOptions parameterizes a full-text search.
type SearchOptions struct {
	// Term is matched as a case-insensitive substring.
	Term string

	// Scope selects the fields to search. ScopeAll checks the summary
	// first, then sections, deduplicated per document.
	Scope SearchScope

	// Limit caps the number of matching documents. Zero means no limit.
	Limit int

	// ExcerptWindow is the number of characters of context around the
	// first match in each excerpt. Zero uses the implementation default.
	ExcerptWindow int
}

// SearchMatch locates one match within a document and carries an excerpt
// around its first occurrence.
type SearchMatch struct {
	Scope        SearchScope `json:"scope"`
	SectionTitle string      `json:"sectionTitle,omitempty"`
	Excerpt      string      `json:"excerpt"`
}

// SearchResult pairs a matching document with its matches.
type SearchResult struct {
	Document *DocumentSummary `json:"document"`
	Matches  []SearchMatch    `json:"matches"`
}

// DocumentService represents a service for storing and querying Wikipedia
// documents. The service exclusively owns document lifetime; no
// update-in-place operation is exposed.
type DocumentService interface {
	// CreateDocument durably persists a new document and assigns its ID.
	// Returns ECONFLICT if a document with the same Key already exists.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByKey retrieves a document by its canonical key.
	// Returns ENOTFOUND if no document has the key.
	FindDocumentByKey(ctx context.Context, key string) (*Document, error)

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// ListDocuments returns summaries of stored documents, most recently
	// extracted first. A limit of zero returns all documents.
	ListDocuments(ctx context.Context, limit int) ([]*DocumentSummary, error)

	// SearchContent returns documents matching the options' term, with
	// per-document match excerpts.
	SearchContent(ctx context.Context, opts SearchOptions) ([]*SearchResult, error)

	// Stats aggregates stored per-document statistics.
	Stats(ctx context.Context) (*CollectionStats, error)
}
