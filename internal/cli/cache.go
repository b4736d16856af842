package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gcad/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solution cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached solutions and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Cache.Backend == backendNone {
		printInfo("Caching is disabled")
		return nil
	}

	store, err := cfg.openCache(ctx)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	defer store.Close()

	clearer, ok := store.(cache.Clearer)
	if !ok {
		return fmt.Errorf("%s cache cannot be cleared", cfg.Cache.Backend)
	}
	if err := clearer.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared %s cache", cfg.Cache.Backend)
	if fc, ok := store.(*cache.FileCache); ok {
		printDetail("Directory: %s", fc.Dir())
	}
	return nil
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file cache",
		Long: `Remove expired and unreadable entries from the file cache.

Redis and MongoDB expire entries on their own; prune only applies to the
file backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCachePrune(cmd.Context())
		},
	}
}

func (c *CLI) runCachePrune(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Cache.Backend != backendFile {
		printInfo("Nothing to prune for the %s backend", cfg.Cache.Backend)
		return nil
	}
	store, err := cfg.openCache(ctx)
	if err != nil {
		return fmt.Errorf("open file cache: %w", err)
	}
	defer store.Close()

	fc, ok := store.(*cache.FileCache)
	if !ok {
		return fmt.Errorf("unexpected cache type %T", store)
	}
	removed, err := fc.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	printSuccess("Pruned %d expired entries", removed)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cfg.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(out, dir)
			return nil
		},
	}
}
