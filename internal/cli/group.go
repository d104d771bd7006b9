package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/manifest"
	"github.com/matzehuels/stackorder/pkg/render"
)

// groupCommand creates the group command.
func (c *CLI) groupCommand() *cobra.Command {
	var (
		flags       sortFlags
		format      string
		sameType    bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "group <manifest>",
		Short: "Print the order as groups of same-typed elements",
		Long: `Sort the manifest and cluster consecutive elements of the same type into groups.

With --same-type-grouping an element whose type already has a group joins the
latest group of that type when its dependencies allow it.`,
		Example: `  stackorder group cars.toml
  stackorder group --same-type-grouping --format json cars.yaml
  stackorder group -i cars.toml`,
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
			opts.Grouped = true
			if cmd.Flags().Changed("same-type-grouping") {
				opts.SameTypeGrouping = manifest.Bool(sameType)
			}

			_, res, err := c.run(cmd, args[0], &flags, opts)
			if err != nil {
				return err
			}

			if interactive {
				printCycles(cmd.ErrOrStderr(), res.Cycles)
				p := tea.NewProgram(NewGroupListModel(res.Groups),
					tea.WithContext(cmd.Context()),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()))
				_, err := p.Run()
				return err
			}
			return writeResult(cmd, flags.output, res, func(w io.Writer) error {
				return render.WriteGroups(w, res.Groups, out)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&sameType, "same-type-grouping", false, "let elements rejoin an earlier group of their type")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse groups interactively")

	return cmd
}
