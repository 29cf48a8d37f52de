package wikidoc

import "context"

// RawDocument is a document as returned by the external content source,
// before normalization into the stored schema.
type RawDocument struct {
	Title    string
	URL      string
	Summary  string
	Sections []RawSection
}

// RawSection is one section of a raw document, in reading order.
type RawSection struct {
	Title   string
	Level   int
	Content string
}

// Fetcher retrieves raw documents from the external content source.
type Fetcher interface {
	// FetchDocument looks up the topic and returns its raw document.
	// A missing topic is a reportable outcome, not a fault: it returns
	// ENOTFOUND. Transport or parse failures return EFETCH.
	// The context controls timeout and cancellation.
	FetchDocument(ctx context.Context, topic string) (*RawDocument, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}
