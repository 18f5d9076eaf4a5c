package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/alpha"
	"github.com/roach88/procmine/internal/petri"
)

// DiscoverOptions holds flags for the discover command.
type DiscoverOptions struct {
	*RootOptions
	Traces []string
	Name   string
	DOT    bool
}

// DiscoverResult is the JSON payload of discover.
type DiscoverResult struct {
	*alpha.Result
	Fitness       float64 `json:"fitness"`
	FittingTraces int     `json:"fitting_traces"`
	Traces        int     `json:"traces"`
}

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiscoverOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "discover [log]",
		Short: "Discover a Petri net with the Alpha Miner",
		Long: `Discover a Petri net from the footprint of a log.

The net has one transition per activity, one place per maximal pair of
causally related activity sets, and source and sink places. The log is
replayed on the discovered net to report its fitness.

With --dot the net is written in Graphviz format instead.

Examples:
  procmine discover running-example.csv
  procmine discover --trace a,b,c,d --trace a,c,b,d --dot | dot -Tpng > net.png`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Traces, "trace", nil, "comma-separated trace (repeatable)")
	cmd.Flags().StringVar(&opts.Name, "name", "discovered", "net name")
	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "write the net as Graphviz DOT")

	return cmd
}

func runDiscover(opts *DiscoverOptions, args []string, cmd *cobra.Command) error {
	traces, err := loadTraces(cmd.Context(), opts.RootOptions, args, opts.Traces)
	if err != nil {
		return err
	}

	res, err := alpha.Discover(opts.Name, traces)
	if errors.Is(err, alpha.ErrNoTraces) {
		return WrapExitError(ExitCommandError, "cannot discover a net", err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "discovery failed", err)
	}

	if opts.DOT {
		return petri.WriteDOT(cmd.OutOrStdout(), res.Net, res.Initial)
	}

	replay := res.Net.ReplayLog(res.Initial, res.Final, traces)
	out := DiscoverResult{
		Result:        res,
		Fitness:       replay.Fitness,
		FittingTraces: replay.FittingTraces,
		Traces:        len(traces),
	}
	return opts.formatter(cmd).Emit(out, func(w io.Writer) error {
		return writeDiscovery(w, out)
	})
}

func writeDiscovery(w io.Writer, r DiscoverResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Net %s: %d places, %d transitions, %d arcs\n",
		r.Net.Name, len(r.Net.Places), len(r.Net.Transitions), len(r.Net.Arcs))
	fmt.Fprintf(&b, "Start activities: %s\n", strings.Join(r.StartActivities, ", "))
	fmt.Fprintf(&b, "End activities: %s\n", strings.Join(r.EndActivities, ", "))
	b.WriteString("Places:\n")
	for _, p := range r.Net.Places {
		fmt.Fprintf(&b, "  %s\n", p.Name)
	}
	fmt.Fprintf(&b, "Fitness: %.4f (%d/%d traces fit)\n", r.Fitness, r.FittingTraces, r.Traces)
	_, err := io.WriteString(w, b.String())
	return err
}
