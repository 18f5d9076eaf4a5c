package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/procmine/internal/digest"
	"github.com/roach88/procmine/internal/eventlog"
)

// ImportResult describes one SaveLog call.
type ImportResult struct {
	RunID string `json:"run_id"`
	LogID string `json:"log_id"`
	// Inserted is false when the log was already stored.
	Inserted bool `json:"inserted"`
	Cases    int  `json:"cases"`
	Events   int  `json:"events"`
}

// SaveLog stores a log under its content-addressed ID and records the
// import run. Saving a log that is already stored only records the run.
//
// name is a display name for the log; source describes where it came from
// (usually a file path).
func (s *Store) SaveLog(ctx context.Context, name, source string, log *eventlog.Log) (ImportResult, error) {
	res := ImportResult{
		RunID:  uuid.Must(uuid.NewV7()).String(),
		LogID:  digest.LogID(log),
		Cases:  log.Len(),
		Events: log.EventCount(),
	}
	now := formatTime(s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("save log: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO logs (id, name, case_count, event_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, res.LogID, name, res.Cases, res.Events, now)
	if err != nil {
		return res, fmt.Errorf("save log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("save log: rows affected: %w", err)
	}
	res.Inserted = affected == 1

	if res.Inserted {
		if err := insertEvents(ctx, tx, res.LogID, log); err != nil {
			return res, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (run_id, log_id, source, inserted, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, res.RunID, res.LogID, source, res.Inserted, now)
	if err != nil {
		return res, fmt.Errorf("save log: record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("save log: commit: %w", err)
	}
	return res, nil
}

// insertEvents writes every event of log in case and event order.
func insertEvents(ctx context.Context, tx *sql.Tx, logID string, log *eventlog.Log) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (log_id, case_seq, seq, case_id, activity, ts, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save events: prepare: %w", err)
	}
	defer stmt.Close()

	for ci, c := range log.Cases() {
		for ei, ev := range c.Events {
			attrs, err := marshalAttributes(ev.Attributes)
			if err != nil {
				return fmt.Errorf("save events: case %q event %d: %w", c.ID, ei+1, err)
			}
			if _, err := stmt.ExecContext(ctx,
				logID, ci, ei, c.ID, ev.Activity, formatTime(ev.Timestamp), attrs,
			); err != nil {
				return fmt.Errorf("save events: case %q event %d: %w", c.ID, ei+1, err)
			}
		}
	}
	return nil
}

// DeleteLog removes a log, its events and its import history.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete log: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete log %s: %w", id, ErrLogNotFound)
	}
	return nil
}
