package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/pkg/figure"
	"github.com/matzehuels/gcad/pkg/pipeline"
)

// rootsCommand creates the roots command.
func (c *CLI) rootsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roots [figure]",
		Short: "List the points a figure can be solved from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoots(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runRoots(ctx context.Context, input string) error {
	doc, err := figure.Load(input)
	if err != nil {
		return err
	}
	roots, err := pipeline.NewRunner(nil, nil, c.Logger).Roots(ctx, pipeline.Options{Figure: doc})
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		printWarning("%s is underconstrained from every root", doc.Name)
		return nil
	}
	printSuccess("%d roots order %s", len(roots), StyleHighlight.Render(doc.Name))
	printDetail("%s", strings.Join(roots, " "))
	return nil
}
