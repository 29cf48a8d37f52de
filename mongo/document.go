package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/gusmmm/wikidoc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time interface verification.
var _ wikidoc.DocumentService = (*DocumentService)(nil)

// DocumentService implements wikidoc.DocumentService using MongoDB.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// documentRecord is the BSON shape of a stored document.
type documentRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Key         string             `bson:"key"`
	Title       string             `bson:"title"`
	SourceURL   string             `bson:"source_url"`
	Summary     string             `bson:"summary"`
	Sections    []sectionRecord    `bson:"sections"`
	Statistics  statisticsRecord   `bson:"statistics"`
	ContentHash string             `bson:"content_hash"`
	ExtractedAt time.Time          `bson:"extracted_at"`
}

type sectionRecord struct {
	Title   string `bson:"title"`
	Level   int    `bson:"level"`
	Content string `bson:"content"`
}

type statisticsRecord struct {
	TotalWords      int `bson:"total_words"`
	TotalCharacters int `bson:"total_characters"`
	TotalSections   int `bson:"total_sections"`
	HierarchyDepth  int `bson:"hierarchy_depth"`
}

func toRecord(doc *wikidoc.Document) *documentRecord {
	rec := &documentRecord{
		Key:         doc.Key,
		Title:       doc.Title,
		SourceURL:   doc.SourceURL,
		Summary:     doc.Summary,
		ContentHash: doc.ContentHash,
		ExtractedAt: doc.ExtractedAt,
		Statistics: statisticsRecord{
			TotalWords:      doc.Statistics.TotalWords,
			TotalCharacters: doc.Statistics.TotalCharacters,
			TotalSections:   doc.Statistics.TotalSections,
			HierarchyDepth:  doc.Statistics.HierarchyDepth,
		},
	}
	for _, s := range doc.Sections {
		rec.Sections = append(rec.Sections, sectionRecord(s))
	}
	return rec
}

func (r *documentRecord) toDomain() *wikidoc.Document {
	doc := &wikidoc.Document{
		ID:          r.ID.Hex(),
		Key:         r.Key,
		Title:       r.Title,
		SourceURL:   r.SourceURL,
		Summary:     r.Summary,
		ContentHash: r.ContentHash,
		ExtractedAt: r.ExtractedAt,
		Statistics: wikidoc.Statistics{
			TotalWords:      r.Statistics.TotalWords,
			TotalCharacters: r.Statistics.TotalCharacters,
			TotalSections:   r.Statistics.TotalSections,
			HierarchyDepth:  r.Statistics.HierarchyDepth,
		},
	}
	for _, s := range r.Sections {
		doc.Sections = append(doc.Sections, wikidoc.Section(s))
	}
	return doc
}

// CreateDocument durably persists a new document and assigns its ID.
// The unique key index rejects duplicates, reported as ECONFLICT.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *wikidoc.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ExtractedAt = time.Now().UTC()

	res, err := s.collection().InsertOne(ctx, toRecord(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return wikidoc.Errorf(wikidoc.ECONFLICT, "document with key %q already exists", doc.Key)
		}
		return storeErr(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid.Hex()
	}
	return nil
}

// FindDocumentByKey retrieves a document by its canonical key.
func (s *DocumentService) FindDocumentByKey(ctx context.Context, key string) (*wikidoc.Document, error) {
	return s.findDocument(ctx, bson.M{"key": key})
}

// FindDocumentByID retrieves a document by its ObjectID hex string.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*wikidoc.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, wikidoc.Errorf(wikidoc.EINVALID, "invalid document id %q", id)
	}
	return s.findDocument(ctx, bson.M{"_id": oid})
}

func (s *DocumentService) findDocument(ctx context.Context, filter bson.M) (*wikidoc.Document, error) {
	var rec documentRecord
	err := s.collection().FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wikidoc.Errorf(wikidoc.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return rec.toDomain(), nil
}

// ListDocuments returns summaries of stored documents, most recently
// extracted first. Full content is excluded by projection.
func (s *DocumentService) ListDocuments(ctx context.Context, limit int) ([]*wikidoc.DocumentSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"summary": 0, "sections": 0}).
		SetSort(bson.D{{Key: "extracted_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var summaries []*wikidoc.DocumentSummary
	for cursor.Next(ctx) {
		var rec documentRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		doc := rec.toDomain()
		summaries = append(summaries, doc.Summarize())
	}

	return summaries, cursor.Err()
}

// SearchContent returns documents matching the term as a case-insensitive
// substring within the requested scope, with match excerpts.
func (s *DocumentService) SearchContent(ctx context.Context, opts wikidoc.SearchOptions) ([]*wikidoc.SearchResult, error) {
	if opts.Term == "" {
		return nil, wikidoc.Errorf(wikidoc.EINVALID, "search term required")
	}

	re := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Term), Options: "i"}

	var filter bson.M
	switch opts.Scope {
	case wikidoc.ScopeSummary:
		filter = bson.M{"summary": re}
	case wikidoc.ScopeSections:
		filter = bson.M{"sections.content": re}
	case wikidoc.ScopeAll:
		filter = bson.M{"$or": bson.A{
			bson.M{"summary": re},
			bson.M{"sections.content": re},
		}}
	default:
		return nil, wikidoc.Errorf(wikidoc.EINVALID, "invalid search scope %q", opts.Scope)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "extracted_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var results []*wikidoc.SearchResult
	for cursor.Next(ctx) {
		var rec documentRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		doc := rec.toDomain()
		results = append(results, &wikidoc.SearchResult{
			Document: doc.Summarize(),
			Matches:  wikidoc.MatchDocument(doc, opts),
		})
	}

	return results, cursor.Err()
}

// Stats aggregates stored per-document statistics with a $group pipeline,
// never recomputing from raw text.
func (s *DocumentService) Stats(ctx context.Context) (*wikidoc.CollectionStats, error) {
	count, err := s.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, storeErr(err)
	}

	stats := &wikidoc.CollectionStats{DocumentCount: int(count)}
	if count == 0 {
		return stats, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_sections", Value: bson.D{{Key: "$sum", Value: "$statistics.total_sections"}}},
			{Key: "total_words", Value: bson.D{{Key: "$sum", Value: "$statistics.total_words"}}},
			{Key: "total_characters", Value: bson.D{{Key: "$sum", Value: "$statistics.total_characters"}}},
			{Key: "avg_sections", Value: bson.D{{Key: "$avg", Value: "$statistics.total_sections"}}},
			{Key: "max_depth", Value: bson.D{{Key: "$max", Value: "$statistics.hierarchy_depth"}}},
		}}},
	}

	cursor, err := s.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var agg struct {
		TotalSections   int     `bson:"total_sections"`
		TotalWords      int     `bson:"total_words"`
		TotalCharacters int     `bson:"total_characters"`
		AvgSections     float64 `bson:"avg_sections"`
		MaxDepth        int     `bson:"max_depth"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&agg); err != nil {
			return nil, err
		}
	}

	stats.TotalSections = agg.TotalSections
	stats.TotalWords = agg.TotalWords
	stats.TotalCharacters = agg.TotalCharacters
	stats.AverageSections = agg.AvgSections
	stats.MaxHierarchyDepth = agg.MaxDepth

	return stats, cursor.Err()
}

func (s *DocumentService) collection() *mongo.Collection {
	return s.db.Collection(collectionDocuments)
}

// storeErr maps driver-level connectivity failures to EUNAVAILABLE so the
// caller sees a storage outage rather than an opaque internal error.
func storeErr(err error) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return wikidoc.Errorf(wikidoc.EUNAVAILABLE, "storage connection unavailable")
	}
	return err
}
