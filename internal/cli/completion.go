package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/pkg/figure"
	"github.com/matzehuels/gcad/pkg/pipeline"
)

// figureExts are the file extensions offered for figure arguments.
var figureExts = []string{"toml", "yaml", "yml", "json"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gcad.

Completions cover commands, flags, figure files, output formats, and the
point ids of the figure already on the command line (for --root).

Bash:
  $ source <(gcad completion bash)

Zsh:
  $ gcad completion zsh > "${fpath[1]}/_gcad"

Fish:
  $ gcad completion fish > ~/.config/fish/completions/gcad.fish

PowerShell:
  PS> gcad completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions attaches argument and flag completion to a command
// whose first argument is a figure file. The second argument, if any, is a
// solution file.
func registerCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return figureExts, cobra.ShellCompDirectiveFilterFileExt
		case 1:
			if strings.HasPrefix(cmd.Use, "check") || strings.HasPrefix(cmd.Use, "render") {
				return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
			}
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if cmd.Flags().Lookup("root") != nil {
		_ = cmd.RegisterFlagCompletionFunc("root", completeRoot)
	}
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
	if cmd.Flags().Lookup("view") != nil {
		_ = cmd.RegisterFlagCompletionFunc("view", cobra.FixedCompletions(
			[]string{pipeline.ViewFigure, pipeline.ViewPlan}, cobra.ShellCompDirectiveNoFileComp))
	}
}

// completeRoot offers the points of the figure named by the first argument.
func completeRoot(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	doc, err := figure.Load(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	idx, err := doc.Index()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, p := range idx.Points() {
		if strings.HasPrefix(p, toComplete) {
			out = append(out, p)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated format list.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	head, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		head, last = toComplete[:i+1], toComplete[i+1:]
	}
	var out []string
	for _, f := range []string{pipeline.FormatJSON, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT} {
		if strings.HasPrefix(f, last) && !strings.Contains(","+head, ","+f+",") {
			out = append(out, head+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
