package main

import (
	"fmt"

	"github.com/gusmmm/wikidoc"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	res := deps.Cache.ListDocuments(deps.Ctx, c.Limit, c.Stats)
	if !res.Success {
		fmt.Fprintf(deps.Stderr, "error: %s\n", res.Error)
		return resultErr(res)
	}

	summaries := res.Data.([]*wikidoc.DocumentSummary)
	if len(summaries) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents cached. Use 'wikidoc get <topic>' to fetch one.")
		return nil
	}

	for _, s := range summaries {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", s.ID, s.Key, s.Title)
		if c.Stats && s.Statistics != nil {
			fmt.Fprintf(deps.Stdout, "    sections=%d words=%d depth=%d\n",
				s.Statistics.TotalSections, s.Statistics.TotalWords, s.Statistics.HierarchyDepth)
		}
	}

	return nil
}
