package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/internal/cli"
	errs "github.com/matzehuels/gcad/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates figures that cannot be solved from other failures.
func exitCode(err error) int {
	switch {
	case errs.Is(err, errs.ErrCodeUnderconstrained):
		return 3
	case errs.Is(err, errs.ErrCodeOverconstrained):
		return 4
	}
	return 1
}

func run(ctx context.Context) error {
	var verbose bool

	base := cli.LevelFromEnv(os.Getenv(cli.EnvLogLevel), cli.LogInfo)
	c := cli.New(os.Stderr, base)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Apply the log level before the command's own pre-run hook
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := base
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
