package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/footprint"
)

// FootprintOptions holds flags for the footprint command.
type FootprintOptions struct {
	*RootOptions
	Traces []string
	ASCII  bool
}

// NewFootprintCommand creates the footprint command.
func NewFootprintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FootprintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "footprint [log]",
		Short: "Print the footprint matrix of a log",
		Long: `Derive the footprint matrix from the directly-follows relation.

Each cell relates a row activity to a column activity:
  →  row is directly followed by column, never the reverse
  ←  column is directly followed by row, never the reverse
  ‖  both orders occur
  #  neither order occurs

Traces come from a log file, a stored log, or repeated --trace flags
with comma-separated activities. The parallel pairs are listed below the
matrix.

Examples:
  procmine footprint running-example.csv
  procmine footprint --trace a,b,c,d --trace a,c,b,d --ascii`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFootprint(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Traces, "trace", nil, "comma-separated trace (repeatable)")
	cmd.Flags().BoolVar(&opts.ASCII, "ascii", false, "use ->, <-, || instead of arrows")

	return cmd
}

func runFootprint(opts *FootprintOptions, args []string, cmd *cobra.Command) error {
	traces, err := loadTraces(cmd.Context(), opts.RootOptions, args, opts.Traces)
	if err != nil {
		return err
	}

	m := footprint.Build(traces)
	return opts.formatter(cmd).Emit(m, func(w io.Writer) error {
		if err := m.Render(w, footprint.RenderOptions{ASCII: opts.ASCII}); err != nil {
			return err
		}
		return writeParallelPairs(w, m, opts.ASCII)
	})
}

// writeParallelPairs lists each parallel pair once, as a‖b with a < b.
func writeParallelPairs(w io.Writer, m *footprint.Matrix, ascii bool) error {
	sym := footprint.Parallel.String()
	if ascii {
		sym = footprint.Parallel.ASCII()
	}
	var pairs []footprint.Pair
	for _, p := range m.Pairs(footprint.Parallel) {
		if p.From < p.To {
			pairs = append(pairs, p)
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nParallel:"); err != nil {
		return err
	}
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "  %s %s %s\n", p.From, sym, p.To); err != nil {
			return err
		}
	}
	return nil
}
