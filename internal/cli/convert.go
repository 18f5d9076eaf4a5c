package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/eventlog"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	To string // output format; inferred from the output path when empty
}

// ConvertResult is the JSON payload of convert.
type ConvertResult struct {
	Input  string          `json:"input"`
	Output string          `json:"output"`
	Format eventlog.Format `json:"format"`
	Cases  int             `json:"cases"`
	Events int             `json:"events"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <log> <output>",
		Short: "Convert an event log between CSV and XES",
		Long: `Read a CSV or XES event log and write it as XES or CSV.

CSV input is parsed with the column mapping, delimiter and timestamp
format from the config file. The output format follows the output file
extension unless --to is given.

CSV output uses the XES column names case:concept:name, concept:name and
time:timestamp with a comma delimiter and RFC 3339 timestamps. Reading a
CSV file whose header lacks the configured columns falls back to that
layout, so converted files can be used by every command.

Examples:
  procmine convert running-example.csv running-example.xes
  procmine convert log:3f2a out.csv
  procmine convert input.csv out.log --to xes`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "output format (xes|csv)")

	return cmd
}

func runConvert(opts *ConvertOptions, input, output string, cmd *cobra.Command) error {
	var (
		format eventlog.Format
		err    error
	)
	if opts.To != "" {
		format, err = eventlog.ParseFormat(opts.To)
	} else {
		format, err = eventlog.FormatFromPath(output)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot choose output format", err)
	}

	log, err := loadLog(cmd.Context(), opts.RootOptions, input)
	if err != nil {
		return err
	}

	if err := eventlog.Export(log, output, format); err != nil {
		return WrapExitError(ExitFailure, "export failed", err)
	}
	slog.Info("log exported", "path", output, "format", format)

	result := ConvertResult{
		Input:  input,
		Output: output,
		Format: format,
		Cases:  log.Len(),
		Events: log.EventCount(),
	}
	return opts.formatter(cmd).Emit(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Wrote %d cases (%d events) to %s as %s\n",
			result.Cases, result.Events, result.Output, result.Format)
		return err
	})
}
