package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    sortFlags
		format   string
		sameType bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <manifest>",
		Short: "Draw the grouped order as a Graphviz graph",
		Long: `Sort the manifest into groups and draw them as clusters, with an edge from
each element to every element it depends on.`,
		Example: `  stackorder render cars.toml > cars.dot
  stackorder render --format svg -o cars.svg cars.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if out != render.FormatDOT && out != render.FormatSVG {
				return fmt.Errorf("render: unsupported format %q (want dot or svg)", format)
			}
			opts, err := flags.options(c)
			if err != nil {
				return err
			}
			opts.Grouped = true
			if cmd.Flags().Changed("same-type-grouping") {
				opts.SameTypeGrouping = manifest.Bool(sameType)
			}

			m, res, err := c.run(cmd, args[0], &flags, opts)
			if err != nil {
				return err
			}

			dot := render.ToDOT(m.TopsortElements(), res.Groups, render.Options{Detailed: detailed})
			data := []byte(dot)
			if out == render.FormatSVG {
				sp := startSpinner(cmd.Context(), cmd.ErrOrStderr(), "SVG rendering")
				data, err = render.RenderSVG(cmd.Context(), dot)
				sp.stop(err)
				if err != nil {
					return err
				}
			}

			return writeResult(cmd, flags.output, res, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format (dot, svg)")
	cmd.Flags().BoolVar(&sameType, "same-type-grouping", false, "let elements rejoin an earlier group of their type")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label elements with their type and level")

	return cmd
}
