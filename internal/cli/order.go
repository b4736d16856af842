package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/pkg/figure"
	"github.com/matzehuels/gcad/pkg/pipeline"
	"github.com/matzehuels/gcad/pkg/render"
)

// orderCommand creates the order command, which plans without solving.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		root     string
		dotPath  string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "order [figure]",
		Short: "Show the order in which points are fixed",
		Long: `Show the order in which points are fixed, without solving.

Each row lists a point and the constraints that pin it. A root is fixed at the
origin; points supported by a gauge are free to take any position on their
locus and are chosen canonically. Constraints not needed to fix any point are
checks, verified once their points are placed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRoot(cmd, root); err != nil {
				return err
			}
			return c.runOrder(cmd.Context(), args[0], root, dotPath, detailed)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "root point (default: figure root or first point)")
	cmd.Flags().StringVar(&dotPath, "dot", "", "also write the plan graph as Graphviz DOT")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show support sets in the DOT graph")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, input, root, dotPath string, detailed bool) error {
	doc, err := figure.Load(input)
	if err != nil {
		return err
	}
	plan, err := pipeline.NewRunner(nil, nil, c.Logger).Plan(ctx, pipeline.Options{Figure: doc, Root: root})
	if err != nil {
		reportFailure(err)
		return err
	}

	printSuccess("Ordered %s from root %s", StyleHighlight.Render(doc.Name), StyleHighlight.Render(plan.Root))
	if g := plan.Gauges(); len(g) > 0 {
		printDetail("gauges: %s", strings.Join(g, " "))
	}
	printPlan(plan)

	if dotPath != "" {
		dot := render.PlanDOT(plan, render.PlanOptions{Detailed: detailed})
		if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dotPath, err)
		}
		printFile(dotPath)
	}
	return nil
}
