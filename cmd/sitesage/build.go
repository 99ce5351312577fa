package main

import (
	"fmt"

	"github.com/quietriver/sitesage"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	if c.IfMissing {
		built, err := deps.Pipeline.BuildIfMissing(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesage.ErrorMessage(err))
			return err
		}
		if !built {
			fmt.Fprintln(deps.Stdout, "Index already built, nothing to do")
			return nil
		}
	} else {
		if err := deps.Pipeline.Rebuild(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesage.ErrorMessage(err))
			return err
		}
	}

	stats, err := deps.Pipeline.BuildStats(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Index built with %d documents at %s\n", stats.DocumentCount, stats.Path)
	return nil
}
