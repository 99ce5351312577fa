package main

import (
	"fmt"

	"github.com/quietriver/sitesage"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	if _, err := deps.Index.Load(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesage.ErrorMessage(err))
		return err
	}

	k := c.TopK
	if k <= 0 {
		k = deps.TopK
	}

	answer, err := deps.Answerer.Answer(deps.Ctx, c.Question, k)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesage.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, src := range answer.Sources {
			fmt.Fprintf(deps.Stdout, "  - %s (%s)\n", src.Title, src.URL)
		}
	}
	return nil
}
