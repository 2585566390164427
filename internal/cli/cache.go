package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gridplot/gridplot/pkg/cache"
)

// cacheCommand creates the artifact cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the per-cell artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It removes a
// retained artifact namespace, but only one this tool created: a directory
// without the owner marker is left alone.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a retained artifact namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("No artifact cache at %s", dir)
				return nil
			}

			if !cache.IsOwned(dir) {
				printWarning("%s was not created by %s, leaving it alone", dir, appName)
				return nil
			}

			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			printSuccess("Removed artifact cache")
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "cache-dir", c.resolveCacheDir(), "artifact cache directory")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the artifact cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(c.resolveCacheDir())
			return nil
		},
	}
}

// resolveCacheDir returns the configured cache directory, falling back to
// the default relative namespace.
func (c *CLI) resolveCacheDir() string {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir
	}
	return cache.DefaultDir
}
