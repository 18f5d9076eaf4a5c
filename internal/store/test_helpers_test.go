package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roach88/procmine/internal/eventlog"
	"github.com/roach88/procmine/internal/testutil"
)

// createTestStore creates a new store in a temp directory with a fixed
// clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

// runningExample parses the six-case running example log.
func runningExample(t *testing.T) *eventlog.Log {
	t.Helper()
	log, err := eventlog.ReadCSV(strings.NewReader(testutil.RunningExampleCSV), eventlog.DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSV() failed: %v", err)
	}
	return log
}
