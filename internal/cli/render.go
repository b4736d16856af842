package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/gcad/pkg/figure"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/pipeline"
	"github.com/matzehuels/gcad/pkg/render"
)

// renderCommand creates the render command, which draws an existing
// solution without solving again.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		formats  string
		size     float64
		noLabels bool
	)

	cmd := &cobra.Command{
		Use:   "render [figure] [solution.json]",
		Short: "Draw a solved figure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := parseFormats(formats)
			if len(fs) == 0 {
				fs = []string{pipeline.FormatSVG}
			}
			for _, f := range fs {
				if f == pipeline.FormatJSON || f == pipeline.FormatDOT {
					return fmt.Errorf("render draws images; use svg, png or pdf (got %s)", f)
				}
			}
			if err := pipeline.ValidateFormats(fs); err != nil {
				return err
			}
			return c.runRender(args[0], args[1], fs, output, size, noLabels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&size, "size", pipeline.DefaultSize, "edge length in inches")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "hide point labels")

	return cmd
}

func (c *CLI) runRender(figurePath, solutionPath string, formats []string, output string, size float64, noLabels bool) error {
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

	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := render.RenderFigure(idx, sol.Positions(), f, render.FigureOptions{
			Title:    doc.Name,
			Width:    vg.Length(size) * vg.Inch,
			Height:   vg.Length(size) * vg.Inch,
			NoLabels: noLabels,
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}

	written, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formats,
		view:      pipeline.ViewFigure,
		input:     figurePath,
		output:    output,
	})
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", StyleHighlight.Render(doc.Name))
	for _, path := range written {
		printFile(path)
	}
	return nil
}
