package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/pkg/figure"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/solve"
)

// checkCommand creates the check command, which validates a solution
// against its figure.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [figure] [solution.json]",
		Short: "Verify that a solution satisfies every constraint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0], args[1])
		},
	}
}

func (c *CLI) runCheck(figurePath, solutionPath string) error {
	doc, err := figure.Load(figurePath)
	if err != nil {
		return err
	}
	idx, err := doc.Index()
	if err != nil {
		return err
	}
	sol, err := gio.ImportJSON(solutionPath)
	if err != nil {
		return err
	}

	violations, err := solve.Validate(idx, sol.Positions())
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		printError("%d of %d constraints violated", len(violations), idx.Len())
		printViolations(gio.FromViolations(violations))
		return fmt.Errorf("solution does not satisfy %s", doc.Name)
	}
	printSuccess("All %d constraints hold", idx.Len())
	return nil
}
