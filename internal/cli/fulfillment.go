package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/fulfillment"
	"github.com/roach88/procmine/internal/petri"
)

// FulfillmentOptions holds flags for the fulfillment command.
type FulfillmentOptions struct {
	*RootOptions
	Params string
	DOT    bool
}

// FulfillmentResult is the JSON payload of fulfillment.
type FulfillmentResult struct {
	Model    *petri.Model       `json:"model"`
	Params   fulfillment.Params `json:"params"`
	Capacity fulfillment.Report `json:"capacity"`
}

// NewFulfillmentCommand creates the fulfillment command.
func NewFulfillmentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FulfillmentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fulfillment",
		Short: "Show the order-fulfillment net and its capacity",
		Long: `Build the order-fulfillment net (Receive → Validate → Pick → Pack → Ship)
and report the static capacity of each activity.

Capacity is resources / mean duration in orders per hour; activities
without a resource pool are automatic. The activity with the lowest
capacity is the bottleneck. Parameters default to the reference
configuration and can be replaced with a YAML file:

  durations:
    Receive: {mean: 2, std: 0.5}
    Pick:    {mean: 8, std: 1.5}
  resources:
    Pick: 5

Examples:
  procmine fulfillment
  procmine fulfillment --params params.yaml --format json
  procmine fulfillment --dot | dot -Tsvg > fulfillment.svg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFulfillment(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Params, "params", "", "YAML file with durations and resources")
	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "write the net as Graphviz DOT")

	return cmd
}

func runFulfillment(opts *FulfillmentOptions, cmd *cobra.Command) error {
	model, err := fulfillment.Model()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to build model", err)
	}
	if opts.DOT {
		return petri.WriteDOT(cmd.OutOrStdout(), model.Net, model.Initial)
	}

	params := fulfillment.DefaultParams()
	if opts.Params != "" {
		params, err = fulfillment.LoadParams(opts.Params)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load params", err)
		}
	}
	if err := params.CheckModel(model); err != nil {
		return WrapExitError(ExitCommandError, "params do not match the model", err)
	}

	res := FulfillmentResult{
		Model:    model,
		Params:   params,
		Capacity: fulfillment.Capacity(params),
	}
	return opts.formatter(cmd).Emit(res, func(w io.Writer) error {
		return writeCapacity(w, res)
	})
}

func writeCapacity(w io.Writer, r FulfillmentResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Net %s: %s\n", r.Model.Net.Name, strings.Join(fulfillment.HappyPath(), " → "))
	fmt.Fprintf(&b, "Initial %s, final %s\n\n", r.Model.Initial, r.Model.Final)

	fmt.Fprintf(&b, "%-10s %8s %8s %10s %10s\n", "Activity", "Mean", "Std", "Resources", "Per hour")
	for _, a := range r.Capacity.Activities {
		std := r.Params.Durations[a.Activity].Std
		if a.Automatic {
			fmt.Fprintf(&b, "%-10s %8.1f %8.1f %10s %10s\n", a.Activity, a.MeanMinutes, std, "auto", "-")
			continue
		}
		fmt.Fprintf(&b, "%-10s %8.1f %8.1f %10d %10.1f\n", a.Activity, a.MeanMinutes, std, a.Resources, a.PerHour)
	}
	if r.Capacity.Bottleneck != "" {
		fmt.Fprintf(&b, "\nBottleneck: %s (%.1f orders/hour)\n", r.Capacity.Bottleneck, r.Capacity.Throughput)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
