package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/chart"
	"github.com/roach88/procmine/internal/eventlog"
)

// ChartOptions holds flags for the chart command.
type ChartOptions struct {
	*RootOptions
	By      string
	Output  string
	Width   int
	Height  int
	DotSize float64
	Title   string
}

// ChartResult is the JSON payload of chart.
type ChartResult struct {
	Output string `json:"output"`
	By     string `json:"by"`
	Cases  int    `json:"cases"`
	Events int    `json:"events"`
}

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "chart <log>",
		Short: "Render a dotted chart of case timelines",
		Long: `Render a dotted chart as PNG.

The x axis is the time since the start of each case. With --by case
there is one row per case and one colour per activity; with --by activity
there is one row per activity and one colour per case.

Examples:
  procmine chart running-example.csv -o cases.png
  procmine chart running-example.csv --by activity -o activities.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.By, "by", "case", "row grouping (case|activity)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "dotted-chart.png", "output PNG path")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "image width in pixels (overrides config)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "image height in pixels (overrides config)")
	cmd.Flags().Float64Var(&opts.DotSize, "dot-size", 0, "dot radius (overrides config)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "chart title")

	return cmd
}

func (o *ChartOptions) chartOptions() chart.Options {
	co := o.settings().ChartOptions()
	if o.Width > 0 {
		co.Width = o.Width
	}
	if o.Height > 0 {
		co.Height = o.Height
	}
	if o.DotSize > 0 {
		co.DotWidth = o.DotSize
	}
	co.Title = o.Title
	return co
}

func runChart(opts *ChartOptions, ref string, cmd *cobra.Command) error {
	var render func(io.Writer, *eventlog.Log, chart.Options) error
	switch opts.By {
	case "case":
		render = chart.ByCase
	case "activity":
		render = chart.ByActivity
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --by %q: must be case or activity", opts.By))
	}

	log, err := loadLog(cmd.Context(), opts.RootOptions, ref)
	if err != nil {
		return err
	}

	if err := writePNG(opts.Output, func(w io.Writer) error {
		return render(w, log, opts.chartOptions())
	}); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			return WrapExitError(ExitFailure, "nothing to plot", err)
		}
		return WrapExitError(ExitFailure, "failed to render chart", err)
	}
	slog.Info("chart written", "path", opts.Output, "by", opts.By)

	result := ChartResult{Output: opts.Output, By: opts.By, Cases: log.Len(), Events: log.EventCount()}
	return opts.formatter(cmd).Emit(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Wrote dotted chart by %s (%d events) to %s\n", result.By, result.Events, result.Output)
		return err
	})
}

// writePNG renders into path, removing the file again if rendering fails.
func writePNG(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return render(f)
}
