package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gusmmm/wikidoc"
)

// Compile-time interface verification.
var _ wikidoc.DocumentService = (*DocumentService)(nil)

// DocumentService implements wikidoc.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateDocument durably persists a new document and assigns its ID.
// Returns ECONFLICT if a document with the same key already exists.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *wikidoc.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.ExtractedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, doc_key, title, source_url, summary, content_hash, extracted_at,
			total_words, total_characters, total_sections, hierarchy_depth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Key, doc.Title, doc.SourceURL, doc.Summary, doc.ContentHash,
		doc.ExtractedAt.Format(time.RFC3339), doc.Statistics.TotalWords, doc.Statistics.TotalCharacters,
		doc.Statistics.TotalSections, doc.Statistics.HierarchyDepth)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return wikidoc.Errorf(wikidoc.ECONFLICT, "document with key %q already exists", doc.Key)
		}
		return err
	}

	for i, sec := range doc.Sections {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sections (document_id, position, title, level, content)
			VALUES (?, ?, ?, ?, ?)
		`, doc.ID, i, sec.Title, sec.Level, sec.Content); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindDocumentByKey retrieves a document by its canonical key.
func (s *DocumentService) FindDocumentByKey(ctx context.Context, key string) (*wikidoc.Document, error) {
	return s.findDocument(ctx, "doc_key = ?", key)
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*wikidoc.Document, error) {
	return s.findDocument(ctx, "id = ?", id)
}

func (s *DocumentService) findDocument(ctx context.Context, where string, arg any) (*wikidoc.Document, error) {
	var doc wikidoc.Document
	var extractedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, doc_key, title, source_url, summary, content_hash, extracted_at,
			total_words, total_characters, total_sections, hierarchy_depth
		FROM documents
		WHERE `+where, arg).Scan(&doc.ID, &doc.Key, &doc.Title, &doc.SourceURL, &doc.Summary,
		&doc.ContentHash, &extractedAt, &doc.Statistics.TotalWords, &doc.Statistics.TotalCharacters,
		&doc.Statistics.TotalSections, &doc.Statistics.HierarchyDepth)

	if err == sql.ErrNoRows {
		return nil, wikidoc.Errorf(wikidoc.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	var parseErr error
	doc.ExtractedAt, parseErr = time.Parse(time.RFC3339, extractedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse extracted_at: %w", parseErr)
	}

	doc.Sections, err = s.findSections(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (s *DocumentService) findSections(ctx context.Context, documentID string) ([]wikidoc.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, level, content
		FROM sections
		WHERE document_id = ?
		ORDER BY position ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []wikidoc.Section
	for rows.Next() {
		var sec wikidoc.Section
		if err := rows.Scan(&sec.Title, &sec.Level, &sec.Content); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}

	return sections, rows.Err()
}

// ListDocuments returns summaries of stored documents, most recently
// extracted first.
func (s *DocumentService) ListDocuments(ctx context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, doc_key, title, source_url, extracted_at,
			total_words, total_characters, total_sections, hierarchy_depth
		FROM documents
		ORDER BY extracted_at DESC, doc_key ASC
	`)
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*wikidoc.DocumentSummary
	for rows.Next() {
		var sum wikidoc.DocumentSummary
		var stats wikidoc.Statistics
		var extractedAt string

		if err := rows.Scan(&sum.ID, &sum.Key, &sum.Title, &sum.SourceURL, &extractedAt,
			&stats.TotalWords, &stats.TotalCharacters, &stats.TotalSections, &stats.HierarchyDepth); err != nil {
			return nil, err
		}

		var parseErr error
		sum.ExtractedAt, parseErr = time.Parse(time.RFC3339, extractedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse extracted_at: %w", parseErr)
		}
		sum.Statistics = &stats

		summaries = append(summaries, &sum)
	}

	return summaries, rows.Err()
}

// SearchContent returns documents matching the term as a case-insensitive
// substring within the requested scope, with match excerpts. For ScopeAll
// the summary is checked before sections and matches are deduplicated per
// document. Matching runs in Go because SQLite's lower() folds ASCII only,
// which would miss non-ASCII case variants.
func (s *DocumentService) SearchContent(ctx context.Context, opts wikidoc.SearchOptions) ([]*wikidoc.SearchResult, error) {
	if opts.Term == "" {
		return nil, wikidoc.Errorf(wikidoc.EINVALID, "search term required")
	}
	if !opts.Scope.Valid() {
		return nil, wikidoc.Errorf(wikidoc.EINVALID, "invalid search scope %q", opts.Scope)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id
		FROM documents
		ORDER BY extracted_at DESC, doc_key ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var results []*wikidoc.SearchResult
	for _, id := range ids {
		doc, err := s.FindDocumentByID(ctx, id)
		if err != nil {
			return nil, err
		}
		matches := wikidoc.MatchDocument(doc, opts)
		if len(matches) == 0 {
			continue
		}
		results = append(results, &wikidoc.SearchResult{
			Document: doc.Summarize(),
			Matches:  matches,
		})
		if opts.Limit > 0 && len(results) == opts.Limit {
			break
		}
	}

	return results, nil
}

// Stats aggregates stored per-document statistics. Values are summed from
// each document's statistics columns, never recomputed from raw text.
func (s *DocumentService) Stats(ctx context.Context) (*wikidoc.CollectionStats, error) {
	var stats wikidoc.CollectionStats
	var avg sql.NullFloat64
	var maxDepth sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(total_sections), 0),
			COALESCE(SUM(total_words), 0),
			COALESCE(SUM(total_characters), 0),
			AVG(total_sections),
			MAX(hierarchy_depth)
		FROM documents
	`).Scan(&stats.DocumentCount, &stats.TotalSections, &stats.TotalWords, &stats.TotalCharacters,
		&avg, &maxDepth)
	if err != nil {
		return nil, err
	}

	stats.AverageSections = avg.Float64
	stats.MaxHierarchyDepth = int(maxDepth.Int64)

	return &stats, nil
}
