// Package cli implements the gcad command-line interface.
//
// # Commands
//
//   - solve: solve a figure file and write coordinates and renders
//   - order: show the fix order and support sets without solving
//   - check: verify a solution file against its figure
//   - roots: list the points a figure can be solved from
//   - render: draw a saved solution
//   - serve: run the HTTP API
//   - cache: clear or locate the solution cache
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/gcad/config.toml (see [Config]).
// Flags override the file; a missing file means defaults.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per backtrack of the search. GCAD_LOG_LEVEL sets the
// level used without -v (debug, info, warn, error).
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/pkg/buildinfo"
	"github.com/matzehuels/gcad/pkg/cache"
	"github.com/matzehuels/gcad/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gcad"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configFile overrides the XDG config location (--config).
	configFile string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gcad",
		Short: "gcad solves 2D geometric constraint figures",
		Long: `gcad places the points of a figure so that its distances, angles,
collinear groups, parallel and perpendicular segments all hold.

Points are fixed one at a time from a root point; each new point lies on the
intersection of the loci its constraints allow, and the search backtracks
when a choice leads to a dead end.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/gcad/config.toml)")

	// Register all subcommands; the figure commands share completions
	for _, cmd := range []*cobra.Command{
		c.solveCommand(),
		c.orderCommand(),
		c.checkCommand(),
		c.rootsCommand(),
		c.renderCommand(),
	} {
		registerCompletions(cmd)
		root.AddCommand(cmd)
	}
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	path := c.configFile
	if path == "" {
		p, err := configPath()
		if err != nil {
			return defaultConfig(), nil
		}
		path = p
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. An unreachable cache
// backend is logged and replaced by no caching.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.ttl()
	if err != nil {
		return nil, err
	}

	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		store, err = cfg.openCache(ctx)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
			store = cache.NewNullCache()
		}
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.TTL = ttl
	return r, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validateRoot rejects an empty --root flag value given explicitly.
func validateRoot(cmd *cobra.Command, root string) error {
	if cmd.Flags().Changed("root") && root == "" {
		return fmt.Errorf("--root must not be empty")
	}
	return nil
}
