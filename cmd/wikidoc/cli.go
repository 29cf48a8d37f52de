package main

import (
	"context"
	"io"

	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/cache"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Cache  *cache.Orchestrator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Get      GetCmd      `cmd:"" help:"Fetch a document by topic, caching it on first retrieval"`
	List     ListCmd     `cmd:"" help:"List cached documents"`
	Sections SectionsCmd `cmd:"" help:"Show the sections of a cached document"`
	Search   SearchCmd   `cmd:"" help:"Search cached documents for a term"`
	Stats    StatsCmd    `cmd:"" help:"Show collection statistics"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Topic string `arg:"" optional:"" help:"Topic to look up"`
	ID    string `help:"Look up by stored document ID instead of topic"`
	Full  bool   `short:"f" help:"Print full section content"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Stats bool `help:"Include per-document statistics"`
	Limit int  `short:"n" help:"Maximum number of documents to list"`
}

// SectionsCmd is the "sections" subcommand.
type SectionsCmd struct {
	Topic  string `arg:"" optional:"" help:"Topic to look up"`
	ID     string `help:"Look up by stored document ID instead of topic"`
	Filter string `help:"Keep only sections whose title contains this text"`
	Limit  int    `short:"n" help:"Maximum number of sections to show"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Term  string `arg:"" help:"Term to search for"`
	In    string `default:"all" enum:"summary,sections,all" help:"Search scope: summary, sections, or all"`
	Limit int    `short:"n" help:"Maximum number of matching documents"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// resultErr converts a failed query result back into a taxonomy error so
// the process exits non-zero with the right code.
func resultErr(res *wikidoc.QueryResult) error {
	code, _ := res.Metadata["code"].(string)
	if code == "" {
		code = wikidoc.EINTERNAL
	}
	return wikidoc.Errorf(code, "%s", res.Error)
}
