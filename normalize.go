package wikidoc

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// CanonicalKey derives the store's unique lookup key from a topic string:
// case-folded with runs of whitespace collapsed to single spaces. Distinct
// from the display title, which keeps the source's casing.
func CanonicalKey(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}

// Normalize converts a raw fetched document into the stored schema,
// computing the canonical key and derived statistics. It is a pure
// function: identical input yields identical output, and it performs no
// I/O. The store assigns ID and ExtractedAt at insert time.
func Normalize(query string, raw *RawDocument) *Document {
	doc := &Document{
		Key:       CanonicalKey(query),
		Title:     raw.Title,
		SourceURL: raw.URL,
		Summary:   raw.Summary,
	}

	words := len(strings.Fields(raw.Summary))
	chars := utf8.RuneCountInString(raw.Summary)
	depth := 0

	for _, rs := range raw.Sections {
		doc.Sections = append(doc.Sections, Section{
			Title:   rs.Title,
			Level:   rs.Level,
			Content: rs.Content,
		})
		words += len(strings.Fields(rs.Content))
		chars += utf8.RuneCountInString(rs.Content)
		if rs.Level > depth {
			depth = rs.Level
		}
	}

	doc.Statistics = Statistics{
		TotalWords:      words,
		TotalCharacters: chars,
		TotalSections:   len(raw.Sections),
		HierarchyDepth:  depth,
	}
	doc.ContentHash = hashDocument(doc)

	return doc
}

// hashDocument computes xxHash over the document's text content and
// returns it as a hex string.
func hashDocument(doc *Document) string {
	var h xxhash.Digest
	_, _ = h.WriteString(doc.Summary)
	for _, s := range doc.Sections {
		_, _ = h.WriteString(s.Title)
		_, _ = h.WriteString(s.Content)
	}
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}
