package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/store"
)

// shortIDLen is the ID prefix length shown in log listings.
const shortIDLen = 12

// LogDetail is the JSON payload of logs show.
type LogDetail struct {
	store.LogInfo
	Imports []store.Import `json:"imports"`
}

// NewLogsCommand creates the logs command and its subcommands.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List and manage stored logs",
		Long: `List the logs in the SQLite log store.

Examples:
  procmine logs --db logs.db
  procmine logs show 3f2a
  procmine logs delete 3f2a`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsList(rootOpts, cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show <id>",
		Short:         "Show a stored log and its import runs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsShow(rootOpts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a stored log",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsDelete(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runLogsList(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	logs, err := st.ListLogs(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list logs", err)
	}

	return opts.formatter(cmd).Emit(logs, func(w io.Writer) error {
		if len(logs) == 0 {
			_, err := fmt.Fprintln(w, "No logs stored.")
			return err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%-*s  %6s  %7s  %4s  %s\n", shortIDLen, "ID", "CASES", "EVENTS", "RUNS", "NAME")
		for _, l := range logs {
			fmt.Fprintf(&b, "%-*s  %6d  %7d  %4d  %s\n", shortIDLen, shortID(l.ID), l.Cases, l.Events, l.ImportRuns, l.Name)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func runLogsShow(opts *RootOptions, prefix string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	info, err := findStoredLog(cmd, st, prefix)
	if err != nil {
		return err
	}
	imports, err := st.ListImports(cmd.Context(), info.ID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list imports", err)
	}

	detail := LogDetail{LogInfo: info, Imports: imports}
	return opts.formatter(cmd).Emit(detail, func(w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "ID:      %s\n", detail.ID)
		fmt.Fprintf(&b, "Name:    %s\n", detail.Name)
		fmt.Fprintf(&b, "Cases:   %d\n", detail.Cases)
		fmt.Fprintf(&b, "Events:  %d\n", detail.Events)
		fmt.Fprintf(&b, "Created: %s\n", detail.CreatedAt.Format(time.RFC3339))
		b.WriteString("Imports:\n")
		for _, imp := range detail.Imports {
			state := "inserted"
			if !imp.Inserted {
				state = "duplicate"
			}
			fmt.Fprintf(&b, "  %s  %s  %-9s  %s\n", imp.RunID, imp.ImportedAt.Format(time.RFC3339), state, imp.Source)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func runLogsDelete(opts *RootOptions, prefix string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	info, err := findStoredLog(cmd, st, prefix)
	if err != nil {
		return err
	}
	if err := st.DeleteLog(cmd.Context(), info.ID); err != nil {
		return WrapExitError(ExitFailure, "failed to delete log", err)
	}

	return opts.formatter(cmd).Emit(info, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted log %s (%s)\n", info.ID, info.Name)
		return err
	})
}

func findStoredLog(cmd *cobra.Command, st *store.Store, prefix string) (store.LogInfo, error) {
	info, err := st.FindLog(cmd.Context(), strings.TrimPrefix(prefix, storedLogPrefix))
	if errors.Is(err, store.ErrLogNotFound) || errors.Is(err, store.ErrAmbiguousID) {
		return store.LogInfo{}, WrapExitError(ExitCommandError, fmt.Sprintf("log %q", prefix), err)
	}
	if err != nil {
		return store.LogInfo{}, WrapExitError(ExitFailure, "failed to look up log", err)
	}
	return info, nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
