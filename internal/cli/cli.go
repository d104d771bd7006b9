package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/internal/config"
	"github.com/matzehuels/stackorder/pkg/cache"
	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/pipeline"
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

	// Config is loaded by the root command before any subcommand runs.
	Config *config.Config

	verbose   bool
	configDir string
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
		Use:          "stackorder",
		Short:        "Stackorder sorts typed elements in dependency order",
		Long:         `Stackorder reads a manifest of typed elements and their dependencies and prints them in a deterministic dependency order, optionally grouped into runs of the same type.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(versionTemplate())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configDir, "config", "", "directory containing config.toml")

	root.AddCommand(c.sortCommand())
	root.AddCommand(c.groupCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config and applies its log level. --verbose wins.
func (c *CLI) loadConfig() error {
	dir := c.configDir
	if dir == "" {
		// A missing home directory only means there is no config file.
		dir, _ = config.Dir()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

// settings returns the loaded config. Commands run without the root
// command get the defaults and the environment.
func (c *CLI) settings() (*config.Config, error) {
	if c.Config == nil {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		c.Config = cfg
	}
	return c.Config, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.settings()
	if err != nil {
		return nil, err
	}
	ch, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	if ttl := cfg.Cache.TTL; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := config.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheOptions(dir))
}

// =============================================================================
// Input / Output
// =============================================================================

// loadManifest reads a manifest from path, or from stdin when path is "-".
// Stdin has no extension, so its format comes from inputFormat.
func loadManifest(cmd *cobra.Command, path, inputFormat string) (*manifest.Manifest, error) {
	if path != "-" {
		return manifest.Load(path)
	}
	f, err := manifest.ParseFormat(inputFormat)
	if err != nil {
		return nil, err
	}
	return manifest.Read(cmd.InOrStdin(), f)
}

// openOutput returns the file at path, or the command's stdout when path is
// empty. The caller closes the result.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeResult writes a sort result through write, then reports stats and
// any intercepted cycles on stderr.
func writeResult(cmd *cobra.Command, path string, res *pipeline.Result, write func(io.Writer) error) error {
	out, err := openOutput(cmd, path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	errw := cmd.ErrOrStderr()
	printCycles(errw, res.Cycles)
	printStats(errw, res.Stats.Elements, res.Stats.Edges, res.Stats.Groups, res.CacheHit)
	if path != "" {
		printFile(errw, path)
	}
	return nil
}
