package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/procmine/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Name string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <log>",
		Short: "Store an event log in the SQLite log store",
		Long: `Parse a CSV or XES log and store it under its content hash.

Importing the same log again records a new import run but stores no new
events. Stored logs can be used by other commands as log:<id>, where <id>
is any unique prefix of the log ID.

Examples:
  procmine import running-example.csv --db logs.db
  procmine import running-example.csv --name "running example"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (default: file name without extension)")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	if strings.HasPrefix(path, storedLogPrefix) {
		return NewExitError(ExitCommandError, "import reads files; the log is already stored")
	}

	log, err := loadLog(cmd.Context(), opts.RootOptions, path)
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	res, err := st.SaveLog(cmd.Context(), name, path, log)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to store log", err)
	}
	slog.Info("log imported", "id", res.LogID, "run", res.RunID, "inserted", res.Inserted)

	return opts.formatter(cmd).Emit(res, func(w io.Writer) error {
		return writeImport(w, res)
	})
}

func writeImport(w io.Writer, res store.ImportResult) error {
	state := "stored"
	if !res.Inserted {
		state = "already stored"
	}
	_, err := fmt.Fprintf(w, "Log %s %s (%d cases, %d events)\nRun %s\n",
		res.LogID, state, res.Cases, res.Events, res.RunID)
	return err
}
