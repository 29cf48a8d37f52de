package wikidoc

import (
	"strings"
	"unicode"
)

// DefaultExcerptWindow is the number of context characters around a match
// when no window is configured.
const DefaultExcerptWindow = 80

// Excerpt returns a snippet of text surrounding the first case-insensitive
// occurrence of term, with half the window on each side and ellipses where
// the snippet is truncated. The window counts characters, not bytes, and the
// snippet never splits a multibyte character. The second return value reports
// whether the term was found; when it was not, the head of the text is
// returned.
func Excerpt(text, term string, window int) (string, bool) {
	if window <= 0 {
		window = DefaultExcerptWindow
	}
	if text == "" || term == "" {
		return text, false
	}

	runes := []rune(text)
	termRunes := []rune(term)

	idx := indexFold(runes, termRunes)
	if idx < 0 {
		if len(runes) > window {
			return string(runes[:window]) + "...", false
		}
		return text, false
	}

	start := idx - window/2
	if start < 0 {
		start = 0
	}
	end := idx + len(termRunes) + window/2
	if end > len(runes) {
		end = len(runes)
	}

	excerpt := string(runes[start:end])
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(runes) {
		excerpt = excerpt + "..."
	}

	return excerpt, true
}

// MatchDocument builds the per-document match list for a search over an
// already-loaded document. For ScopeAll the summary is checked before
// sections and the result is deduplicated to a single match per document.
func MatchDocument(doc *Document, opts SearchOptions) []SearchMatch {
	var matches []SearchMatch

	if opts.Scope == ScopeSummary || opts.Scope == ScopeAll {
		if containsFold(doc.Summary, opts.Term) {
			excerpt, _ := Excerpt(doc.Summary, opts.Term, opts.ExcerptWindow)
			matches = append(matches, SearchMatch{
				Scope:   ScopeSummary,
				Excerpt: excerpt,
			})
			if opts.Scope == ScopeAll {
				return matches
			}
		}
	}

	if opts.Scope == ScopeSections || opts.Scope == ScopeAll {
		for _, sec := range doc.Sections {
			if !containsFold(sec.Content, opts.Term) {
				continue
			}
			excerpt, _ := Excerpt(sec.Content, opts.Term, opts.ExcerptWindow)
			matches = append(matches, SearchMatch{
				Scope:        ScopeSections,
				SectionTitle: sec.Title,
				Excerpt:      excerpt,
			})
			if opts.Scope == ScopeAll {
				break
			}
		}
	}

	return matches
}

func containsFold(text, term string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(term))
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of term in text, or -1. Folding is per rune, so it agrees with containsFold.
func indexFold(text, term []rune) int {
	for i := 0; i+len(term) <= len(text); i++ {
		match := true
		for j, r := range term {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
