package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/procmine/internal/eventlog"
)

// Lookup errors.
var (
	ErrLogNotFound = errors.New("log not found")
	ErrAmbiguousID = errors.New("ambiguous log id prefix")
)

// LogInfo describes a stored log.
type LogInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Cases      int       `json:"cases"`
	Events     int       `json:"events"`
	CreatedAt  time.Time `json:"created_at"`
	ImportRuns int       `json:"import_runs"`
}

// Import is one recorded SaveLog run.
type Import struct {
	RunID      string    `json:"run_id"`
	LogID      string    `json:"log_id"`
	Source     string    `json:"source"`
	Inserted   bool      `json:"inserted"`
	ImportedAt time.Time `json:"imported_at"`
}

const logInfoQuery = `
	SELECT l.id, l.name, l.case_count, l.event_count, l.created_at,
		(SELECT COUNT(*) FROM imports i WHERE i.log_id = l.id)
	FROM logs l
`

// ReadLog loads a stored log. Returns ErrLogNotFound if id is unknown.
func (s *Store) ReadLog(ctx context.Context, id string) (*eventlog.Log, error) {
	if _, err := s.logInfo(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id, activity, ts, attributes
		FROM events
		WHERE log_id = ?
		ORDER BY case_seq ASC, seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	log := eventlog.New()
	for rows.Next() {
		var ev eventlog.Event
		var ts, attrs string
		if err := rows.Scan(&ev.CaseID, &ev.Activity, &ts, &attrs); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if ev.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		if ev.Attributes, err = unmarshalAttributes(attrs); err != nil {
			return nil, err
		}
		log.Append(ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return log, nil
}

// ListLogs returns all stored logs, oldest first.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListLogs(ctx context.Context) ([]LogInfo, error) {
	rows, err := s.db.QueryContext(ctx, logInfoQuery+`
		ORDER BY l.created_at ASC, l.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := []LogInfo{}
	for rows.Next() {
		info, err := scanLogInfo(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return logs, nil
}

// FindLog resolves a full ID or a unique ID prefix.
func (s *Store) FindLog(ctx context.Context, prefix string) (LogInfo, error) {
	if prefix == "" {
		return LogInfo{}, fmt.Errorf("empty log id: %w", ErrLogNotFound)
	}

	// Escape LIKE wildcards; IDs are hex, but prefixes come from users.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	rows, err := s.db.QueryContext(ctx, logInfoQuery+`
		WHERE l.id LIKE ? ESCAPE '\'
		ORDER BY l.id COLLATE BINARY ASC
		LIMIT 2
	`, escaped+"%")
	if err != nil {
		return LogInfo{}, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var matches []LogInfo
	for rows.Next() {
		info, err := scanLogInfo(rows)
		if err != nil {
			return LogInfo{}, err
		}
		matches = append(matches, info)
	}
	if err := rows.Err(); err != nil {
		return LogInfo{}, fmt.Errorf("iterate logs: %w", err)
	}

	switch len(matches) {
	case 0:
		return LogInfo{}, fmt.Errorf("log %s: %w", prefix, ErrLogNotFound)
	case 1:
		return matches[0], nil
	default:
		return LogInfo{}, fmt.Errorf("log %s: %w", prefix, ErrAmbiguousID)
	}
}

// ListImports returns the import runs of a log in run order. UUIDv7 run
// IDs sort by creation time.
//
// Returns an empty slice (not nil) if the log has no runs.
func (s *Store) ListImports(ctx context.Context, logID string) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, log_id, source, inserted, imported_at
		FROM imports
		WHERE log_id = ?
		ORDER BY run_id COLLATE BINARY ASC
	`, logID)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	imports := []Import{}
	for rows.Next() {
		var imp Import
		var at string
		if err := rows.Scan(&imp.RunID, &imp.LogID, &imp.Source, &imp.Inserted, &at); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		if imp.ImportedAt, err = parseTime(at); err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return imports, nil
}

func (s *Store) logInfo(ctx context.Context, id string) (LogInfo, error) {
	row := s.db.QueryRowContext(ctx, logInfoQuery+`WHERE l.id = ?`, id)
	info, err := scanLogInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return LogInfo{}, fmt.Errorf("log %s: %w", id, ErrLogNotFound)
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLogInfo(row scanner) (LogInfo, error) {
	var info LogInfo
	var created string
	if err := row.Scan(&info.ID, &info.Name, &info.Cases, &info.Events, &created, &info.ImportRuns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return info, err
		}
		return info, fmt.Errorf("scan log: %w", err)
	}
	var err error
	if info.CreatedAt, err = parseTime(created); err != nil {
		return info, err
	}
	return info, nil
}
