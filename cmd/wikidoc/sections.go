package main

import (
	"fmt"

	"github.com/gusmmm/wikidoc"
	"github.com/gusmmm/wikidoc/cache"
)

// Run executes the sections command.
func (c *SectionsCmd) Run(deps *Dependencies) error {
	if c.Topic == "" && c.ID == "" {
		fmt.Fprintln(deps.Stderr, "error: provide a topic or --id")
		return wikidoc.Errorf(wikidoc.EINVALID, "provide a topic or --id")
	}

	res := deps.Cache.FetchSections(deps.Ctx, cache.DocumentRequest{Query: c.Topic, ID: c.ID}, c.Filter, c.Limit)
	if !res.Success {
		fmt.Fprintf(deps.Stderr, "error: %s\n", res.Error)
		return resultErr(res)
	}

	data := res.Data.(*cache.SectionsData)

	fmt.Fprintf(deps.Stdout, "Sections for %s (%d shown):\n\n", data.Document.Title, len(data.Sections))
	if len(data.Sections) == 0 {
		if c.Filter != "" {
			fmt.Fprintf(deps.Stdout, "No sections match filter %q.\n", c.Filter)
		} else {
			fmt.Fprintln(deps.Stdout, "The document has no sections.")
		}
		return nil
	}

	for _, s := range data.Sections {
		fmt.Fprintf(deps.Stdout, "%s %s\n", headingMarker(s.Level), s.Title)
	}

	return nil
}
