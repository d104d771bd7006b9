package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/internal/config"
	"github.com/matzehuels/stackorder/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheDir returns the file cache directory: cache.dir from the config, or
// the XDG default.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.settings()
	if err != nil {
		return "", err
	}
	def, err := config.CacheDir()
	if err != nil && cfg.Cache.Dir == "" {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return cfg.CacheOptions(def).Dir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached sort results",
		Long: `Remove every entry from the file cache.

Redis and MongoDB entries expire on their own after cache.ttl.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			w := cmd.ErrOrStderr()
			if b := cfg.Cache.Backend; b != cache.BackendFile && b != "" {
				printInfo(w, "Backend %s is not cleared locally; entries expire after %s", b, cfg.Cache.TTL.Round(time.Second))
				return nil
			}

			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(w, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(w, "Cleared cache")
			printDetail(w, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			if !long {
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			}

			cfg, err := c.settings()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "Backend", cfg.Cache.Backend)
			printKeyValue(w, "Directory", dir)
			printKeyValue(w, "TTL", cfg.Cache.TTL.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "also print backend and TTL")

	return cmd
}
