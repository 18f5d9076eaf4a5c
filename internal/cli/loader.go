package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/procmine/internal/eventlog"
	"github.com/roach88/procmine/internal/store"
)

// storedLogPrefix marks a log argument as a reference into the store.
const storedLogPrefix = "log:"

// loadLog reads the log named by ref. A ref of the form log:<id> is looked
// up in the store by ID prefix; anything else is a CSV or XES file path
// read with the configured CSV options.
func loadLog(ctx context.Context, opts *RootOptions, ref string) (*eventlog.Log, error) {
	if id, ok := strings.CutPrefix(ref, storedLogPrefix); ok {
		return loadStoredLog(ctx, opts, id)
	}

	cfg := opts.settings()
	csvOpts, err := cfg.CSVOptions()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid csv configuration", err)
	}
	slog.Debug("reading log", "path", ref)
	log, err := eventlog.ReadFile(ref, csvOpts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", ref), err)
	}
	slog.Debug("log read", "cases", log.Len(), "events", log.EventCount())
	return log, nil
}

func loadStoredLog(ctx context.Context, opts *RootOptions, prefix string) (*eventlog.Log, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	defer closeStore(st)

	info, err := st.FindLog(ctx, prefix)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("log %q", prefix), err)
	}
	log, err := st.ReadLog(ctx, info.ID)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read stored log", err)
	}
	slog.Debug("stored log read", "id", info.ID, "name", info.Name)
	return log, nil
}

func openStore(opts *RootOptions) (*store.Store, error) {
	path := opts.databasePath()
	slog.Debug("opening store", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// parseTraces turns "a,b,c" arguments into traces.
func parseTraces(specs []string) [][]string {
	traces := make([][]string, 0, len(specs))
	for _, s := range specs {
		var trace []string
		for _, a := range strings.Split(s, ",") {
			if a = strings.TrimSpace(a); a != "" {
				trace = append(trace, a)
			}
		}
		traces = append(traces, trace)
	}
	return traces
}

// loadTraces returns traces from --trace flags if any were given, or from
// the log argument otherwise.
func loadTraces(ctx context.Context, opts *RootOptions, args, traceFlags []string) ([][]string, error) {
	switch {
	case len(traceFlags) > 0 && len(args) > 0:
		return nil, NewExitError(ExitCommandError, "give either a log or --trace, not both")
	case len(traceFlags) > 0:
		return parseTraces(traceFlags), nil
	case len(args) == 1:
		log, err := loadLog(ctx, opts, args[0])
		if err != nil {
			return nil, err
		}
		return log.Traces(), nil
	default:
		return nil, NewExitError(ExitCommandError, "a log or at least one --trace is required")
	}
}
