// Package wikidoc provides cached storage and retrieval of structured
// Wikipedia documents for a quiz-game assistant. A query is answered from
// persistent storage when possible; on a miss the document is fetched from
// Wikipedia, normalized into a structured record, persisted, and returned.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, mongo/, wikipedia/).
package wikidoc
