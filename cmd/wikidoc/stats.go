package main

import (
	"fmt"

	"github.com/gusmmm/wikidoc"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	res := deps.Cache.Statistics(deps.Ctx)
	if !res.Success {
		fmt.Fprintf(deps.Stderr, "error: %s\n", res.Error)
		return resultErr(res)
	}

	stats := res.Data.(*wikidoc.CollectionStats)
	if stats.DocumentCount == 0 {
		fmt.Fprintln(deps.Stdout, "No documents cached. Use 'wikidoc get <topic>' to fetch one.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents:          %d\n", stats.DocumentCount)
	fmt.Fprintf(deps.Stdout, "Total sections:     %d\n", stats.TotalSections)
	fmt.Fprintf(deps.Stdout, "Total words:        %d\n", stats.TotalWords)
	fmt.Fprintf(deps.Stdout, "Total characters:   %d\n", stats.TotalCharacters)
	fmt.Fprintf(deps.Stdout, "Avg sections/doc:   %.2f\n", stats.AverageSections)
	fmt.Fprintf(deps.Stdout, "Max section depth:  %d\n", stats.MaxHierarchyDepth)

	return nil
}
