package main

import (
	"fmt"

	"github.com/quietriver/sitesage"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	if _, err := deps.Index.Load(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesage.ErrorMessage(err))
		return err
	}

	stats, err := deps.Index.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesage.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Path:       %s\n", stats.Path)
	fmt.Fprintf(deps.Stdout, "Collection: %s\n", stats.Collection)
	fmt.Fprintf(deps.Stdout, "Exists:     %t\n", stats.Exists)
	if stats.CountKnown {
		fmt.Fprintf(deps.Stdout, "Documents:  %d\n", stats.DocumentCount)
	} else {
		fmt.Fprintln(deps.Stdout, "Documents:  (not built)")
	}
	return nil
}
