package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/pipeline"
	"github.com/matzehuels/stackorder/pkg/render"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

// sortFlags are the flags shared by sort, group and render.
type sortFlags struct {
	inputFormat     string
	encoding        string
	noCycleCheck    bool
	interceptCycles bool
	noCache         bool
	refresh         bool
	output          string
}

func (f *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "json", "manifest format when reading stdin (json, toml, yaml)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "emitter encoding (sequence, text); defaults to sort.encoding")
	cmd.Flags().BoolVar(&f.noCycleCheck, "no-cycle-check", false, "disable cycle detection")
	cmd.Flags().BoolVar(&f.interceptCycles, "intercept-cycles", false, "report cycles as warnings instead of failing")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and sort again")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
}

// options converts the flags into pipeline options. Only flags the user set
// override the manifest's own options.
func (f *sortFlags) options(c *CLI) (pipeline.Options, error) {
	cfg, err := c.settings()
	if err != nil {
		return pipeline.Options{}, err
	}
	enc := cfg.Encoding()
	if f.encoding != "" {
		if enc, err = topsort.ParseEncoding(f.encoding); err != nil {
			return pipeline.Options{}, err
		}
	}
	opts := pipeline.Options{
		InterceptCycles: f.interceptCycles,
		Encoding:        enc,
		Refresh:         f.refresh,
		Logger:          c.Logger,
	}
	if f.noCycleCheck {
		opts.DetectCycles = manifest.Bool(false)
	}
	return opts, nil
}

// run loads the manifest at path and sorts it.
func (c *CLI) run(cmd *cobra.Command, path string, f *sortFlags, opts pipeline.Options) (*manifest.Manifest, *pipeline.Result, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	m, err := loadManifest(cmd, path, f.inputFormat)
	if err != nil {
		return nil, nil, err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Run(ctx, m, opts)
	if err != nil {
		return nil, nil, err
	}
	prog.done(fmt.Sprintf("Sorted %d elements", res.Stats.Elements))
	return m, res, nil
}

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	var (
		flags  sortFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "sort <manifest>",
		Short: "Print elements in dependency order",
		Long: `Print the manifest's elements so that every element follows the elements it depends on.

Pass "-" to read the manifest from stdin.`,
		Example: `  stackorder sort cars.toml
  stackorder sort -o order.json --format json cars.yaml
  cat cars.json | stackorder sort -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			opts, err := flags.options(c)
			if err != nil {
				return err
			}

			_, res, err := c.run(cmd, args[0], &flags, opts)
			if err != nil {
				return err
			}
			return writeResult(cmd, flags.output, res, func(w io.Writer) error {
				return render.WriteOrder(w, res.Order, out)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")

	return cmd
}
