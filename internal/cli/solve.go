package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/figure"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/observability"
	"github.com/matzehuels/gcad/pkg/pipeline"
	"github.com/matzehuels/gcad/pkg/server"
)

// solveFlags holds the solve command flags that are not pipeline options.
type solveFlags struct {
	output   string
	formats  string
	noCache  bool
	remote   string
	pickRoot bool
	quiet    bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve [figure]",
		Short: "Solve a figure and write its coordinates",
		Long: `Solve a figure and write its coordinates.

The figure is read from a .toml, .yaml or .json file. Points are ordered from
the root (--root, the figure's root, or its first point) and placed by
backtracking search. The solution is written as <figure>.solution.json; add
svg, png or pdf formats to draw the solved figure, or --view plan to draw the
order in which points were fixed.

Solutions are cached by figure content and root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRoot(cmd, opts.Root); err != nil {
				return err
			}
			opts.Formats = parseFormats(flags.formats)
			return c.runSolve(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): json (default), svg, png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached solution exists")
	cmd.Flags().StringVar(&flags.remote, "server", "", "solve on a remote gcad server (e.g. http://localhost:8080)")
	cmd.Flags().BoolVarP(&flags.pickRoot, "pick-root", "i", false, "choose another root interactively if the figure is underconstrained")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print the coordinate table")

	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "root point (default: figure root or first point)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", pipeline.DefaultMaxSteps, "maximum candidate placements")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", pipeline.DefaultTimeout, "search timeout")

	cmd.Flags().StringVar(&opts.View, "view", pipeline.DefaultView, "image view: figure, plan")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show support sets in plan renders")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "hide point labels in figure renders")
	cmd.Flags().Float64Var(&opts.Size, "size", pipeline.DefaultSize, "figure render size in inches")

	return cmd
}

// solveOutcome is what runSolve prints, from either a local or remote run.
type solveOutcome struct {
	solution  gio.Solution
	artifacts map[string][]byte
	cached    bool
}

// runSolve loads the figure, solves it locally or remotely, and writes output.
func (c *CLI) runSolve(ctx context.Context, input string, opts pipeline.Options, flags solveFlags) error {
	doc, err := figure.Load(input)
	if err != nil {
		return err
	}
	opts.Figure = doc
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Solving %s...", doc.Name))
	spin.Start()

	var out *solveOutcome
	if flags.remote != "" {
		out, err = c.solveRemote(ctx, flags.remote, opts)
	} else {
		out, err = c.solveLocal(ctx, opts, flags.noCache, spin)
	}
	spin.Stop()

	if errs.Is(err, errs.ErrCodeUnderconstrained) && flags.pickRoot && flags.remote == "" {
		root, perr := c.chooseRoot(ctx, opts, err)
		if perr != nil {
			return perr
		}
		if root != "" {
			opts.Root = root
			return c.runSolve(ctx, input, opts, flags)
		}
	}
	if err != nil {
		reportFailure(err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if flags.output != "-" {
		c.printSolution(doc, out, flags.quiet)
	}

	written, err := writeArtifacts(artifactWriteParams{
		artifacts: out.artifacts,
		formats:   opts.Formats,
		view:      opts.View,
		input:     input,
		output:    flags.output,
	})
	if err != nil {
		return err
	}
	for _, path := range written {
		printFile(path)
	}
	for _, path := range written {
		if strings.HasSuffix(path, ".solution.json") {
			printNewline()
			printNextStep("Check", fmt.Sprintf("gcad check %s %s", input, path))
			break
		}
	}
	return nil
}

func (c *CLI) printSolution(doc *figure.Document, out *solveOutcome, quiet bool) {
	sol := out.solution
	printSuccess("Solved %s from root %s", StyleHighlight.Render(doc.Name), StyleHighlight.Render(sol.Root))
	constraints := 0
	if idx, err := doc.Index(); err == nil {
		constraints = idx.Len()
	}
	printStats(len(sol.Points), constraints, sol.Steps, sol.Backtracks, out.cached)
	if !quiet {
		printPositions(sol.Points)
	}
	if len(sol.Violations) > 0 {
		printWarning("%d constraints violated", len(sol.Violations))
		printViolations(sol.Violations)
	}
}

func (c *CLI) solveLocal(ctx context.Context, opts pipeline.Options, noCache bool, progress observability.PipelineHooks) (*solveOutcome, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Progress = progress

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	prog.done("Solved "+res.Solution.Figure, "points", len(res.Solution.Points), "steps", res.Solution.Steps)
	return &solveOutcome{
		solution:  res.Solution,
		artifacts: res.Artifacts,
		cached:    res.CacheInfo.SolveHit,
	}, nil
}

func (c *CLI) solveRemote(ctx context.Context, baseURL string, opts pipeline.Options) (*solveOutcome, error) {
	c.Logger.Debug("solving remotely", "server", baseURL)
	resp, err := server.NewClient(baseURL).Solve(ctx, server.SolveRequest{
		Figure:    opts.Figure,
		Root:      opts.Root,
		MaxSteps:  opts.MaxSteps,
		TimeoutMS: int(opts.Timeout / time.Millisecond),
		Refresh:   opts.Refresh,
		Formats:   opts.Formats,
		View:      opts.View,
		Detailed:  opts.Detailed,
		NoLabels:  opts.NoLabels,
		Size:      opts.Size,
	})
	if err != nil {
		return nil, err
	}
	artifacts := resp.Artifacts
	if artifacts == nil {
		artifacts = make(map[string][]byte)
	}
	var buf bytes.Buffer
	if err := gio.WriteJSON(resp.Solution, &buf); err != nil {
		return nil, err
	}
	artifacts[pipeline.FormatJSON] = buf.Bytes()
	return &solveOutcome{solution: resp.Solution, artifacts: artifacts, cached: resp.Cached}, nil
}

// chooseRoot offers the roots the figure can be ordered from.
func (c *CLI) chooseRoot(ctx context.Context, opts pipeline.Options, cause error) (string, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	roots, err := runner.Roots(ctx, opts)
	if err != nil {
		return "", err
	}
	if len(roots) == 0 {
		printWarning("No root orders the whole figure; add constraints")
		return "", nil
	}
	var options []RootOption
	for _, r := range roots {
		o := opts
		o.Root = r
		plan, err := runner.Plan(ctx, o)
		if err != nil {
			return "", err
		}
		options = append(options, RootOption{Root: r, Plan: plan})
	}
	var stalled *errs.StalledError
	failed := opts.Root
	if errors.As(cause, &stalled) {
		failed = stalled.Root
	}
	return pickRoot(failed, options)
}

// reportFailure prints a short explanation for solver failures.
func reportFailure(err error) {
	var stalled *errs.StalledError
	switch {
	case errors.As(err, &stalled):
		printError("Underconstrained from root %s", stalled.Root)
		printDetail("fixed: %s", strings.Join(stalled.Path, " "))
		printDetail("unfixed: %s", strings.Join(stalled.Unfixed, " "))
		printNextStep("List usable roots", "gcad roots <figure>")
	case errs.Is(err, errs.ErrCodeOverconstrained):
		printError("No placement satisfies every constraint")
	case errs.Is(err, errs.ErrCodeTimeout):
		printError("Search stopped: %s", errs.UserMessage(err))
	}
}
