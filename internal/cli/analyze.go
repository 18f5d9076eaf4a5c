package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/analysis"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Case string // report only this case's duration
}

// CaseDurationResult is the JSON payload of analyze --case.
type CaseDurationResult struct {
	Case     string        `json:"case"`
	Duration time.Duration `json:"duration"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <log>",
		Short: "Summarise an event log",
		Long: `Print start and end activities, case durations and rework counts.

Rework counts the cases in which an activity occurs more than once.

Examples:
  procmine analyze running-example.csv
  procmine analyze running-example.csv --case 3
  procmine analyze log:3f2a --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Case, "case", "", "print the duration of one case")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, ref string, cmd *cobra.Command) error {
	log, err := loadLog(cmd.Context(), opts.RootOptions, ref)
	if err != nil {
		return err
	}
	f := opts.formatter(cmd)

	if opts.Case != "" {
		d, err := analysis.CaseDuration(log, opts.Case)
		if errors.Is(err, analysis.ErrCaseNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("case %q", opts.Case), err)
		}
		if err != nil {
			return err
		}
		res := CaseDurationResult{Case: opts.Case, Duration: d}
		return f.Emit(res, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Case %s: %s\n", res.Case, res.Duration)
			return err
		})
	}

	summary := analysis.Summarize(log)
	return f.Emit(summary, func(w io.Writer) error {
		return writeSummary(w, summary)
	})
}

func writeSummary(w io.Writer, s analysis.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Cases: %d\n", s.Cases)
	fmt.Fprintf(&b, "Events: %d\n", s.Events)
	fmt.Fprintf(&b, "Activities: %d\n", len(s.Activities))

	writeCounts(&b, "Start activities", s.StartActivities)
	writeCounts(&b, "End activities", s.EndActivities)

	b.WriteString("Case durations:\n")
	for _, d := range s.CaseDurations {
		fmt.Fprintf(&b, "  %s\n", d)
	}
	if len(s.CaseDurations) > 0 {
		fmt.Fprintf(&b, "Mean case duration: %s\n", s.MeanDuration)
		fmt.Fprintf(&b, "Median case duration: %s\n", s.MedianDuration)
	}

	writeCounts(&b, "Rework (cases repeating the activity)", s.Rework)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeCounts writes a titled list of counts, largest first, ties by name.
func writeCounts(b *strings.Builder, title string, counts map[string]int) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(counts) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	names := make([]string, 0, len(counts))
	width := 0
	for name := range counts {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Fprintf(b, "  %-*s  %d\n", width, name, counts[name])
	}
}
