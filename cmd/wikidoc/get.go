package main

import (
	"fmt"
	"strings"

	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/cache"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	if c.Topic == "" && c.ID == "" {
		fmt.Fprintln(deps.Stderr, "error: provide a topic or --id")
		return wikidoc.Errorf(wikidoc.EINVALID, "provide a topic or --id")
	}

	res := deps.Cache.FetchDocument(deps.Ctx, cache.DocumentRequest{Query: c.Topic, ID: c.ID})
	if !res.Success {
		fmt.Fprintf(deps.Stderr, "error: %s\n", res.Error)
		return resultErr(res)
	}

	doc := res.Data.(*wikidoc.Document)

	source := "cache"
	if hit, ok := res.Metadata["cacheHit"].(bool); ok && !hit {
		source = "fetched"
	}

	fmt.Fprintf(deps.Stdout, "%s (%s)\n", doc.Title, source)
	fmt.Fprintf(deps.Stdout, "URL: %s\n", doc.SourceURL)
	fmt.Fprintf(deps.Stdout, "Sections: %d  Words: %d\n", doc.Statistics.TotalSections, doc.Statistics.TotalWords)
	fmt.Fprintf(deps.Stdout, "\n%s\n", doc.Summary)

	for _, s := range doc.Sections {
		fmt.Fprintf(deps.Stdout, "\n%s %s\n", headingMarker(s.Level), s.Title)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "\n%s\n", s.Content)
		}
	}

	return nil
}

// headingMarker renders a section level as a markdown heading prefix.
func headingMarker(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level)
}
