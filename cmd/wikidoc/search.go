package main

import (
	"fmt"

	"github.com/gusmmm/wikidoc"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	res := deps.Cache.SearchContent(deps.Ctx, c.Term, wikidoc.SearchScope(c.In), c.Limit)
	if !res.Success {
		fmt.Fprintf(deps.Stderr, "error: %s\n", res.Error)
		return resultErr(res)
	}

	results := res.Data.([]*wikidoc.SearchResult)
	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents match %q.\n", c.Term)
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", r.Document.Key, r.Document.Title)
		for _, m := range r.Matches {
			where := string(m.Scope)
			if m.SectionTitle != "" {
				where = m.SectionTitle
			}
			fmt.Fprintf(deps.Stdout, "    [%s] %s\n", where, m.Excerpt)
		}
	}

	return nil
}
