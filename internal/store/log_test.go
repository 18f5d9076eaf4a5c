package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/procmine/internal/digest"
	"github.com/roach88/procmine/internal/eventlog"
)

func TestSaveLog_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	log := runningExample(t)

	res, err := s.SaveLog(ctx, "running-example", "running-example.csv", log)
	if err != nil {
		t.Fatalf("SaveLog() failed: %v", err)
	}
	if !res.Inserted {
		t.Error("first SaveLog() should insert")
	}
	if res.LogID != digest.LogID(log) {
		t.Errorf("LogID = %s, want %s", res.LogID, digest.LogID(log))
	}
	if res.Cases != 6 || res.Events != 42 {
		t.Errorf("counts = %d cases, %d events; want 6, 42", res.Cases, res.Events)
	}

	got, err := s.ReadLog(ctx, res.LogID)
	if err != nil {
		t.Fatalf("ReadLog() failed: %v", err)
	}
	if digest.LogID(got) != res.LogID {
		t.Error("read log differs from saved log")
	}
	if !reflect.DeepEqual(got.Traces(), log.Traces()) {
		t.Errorf("Traces() = %v, want %v", got.Traces(), log.Traces())
	}

	c, ok := got.Case("1")
	if !ok {
		t.Fatal("case 1 missing")
	}
	if c.Events[0].Attributes["Resource"] != "Pete" {
		t.Errorf("Resource = %q, want Pete", c.Events[0].Attributes["Resource"])
	}
	want := time.Date(2010, 12, 30, 11, 2, 0, 0, time.UTC)
	if !c.Events[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", c.Events[0].Timestamp, want)
	}
}

func TestSaveLog_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	log := runningExample(t)

	first, err := s.SaveLog(ctx, "a", "a.csv", log)
	if err != nil {
		t.Fatalf("first SaveLog() failed: %v", err)
	}
	second, err := s.SaveLog(ctx, "b", "b.xes", log)
	if err != nil {
		t.Fatalf("second SaveLog() failed: %v", err)
	}

	if second.Inserted {
		t.Error("second SaveLog() of the same log should not insert")
	}
	if first.LogID != second.LogID {
		t.Errorf("LogIDs differ: %s vs %s", first.LogID, second.LogID)
	}
	if first.RunID == second.RunID {
		t.Error("each import run needs its own run ID")
	}

	var events int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&events); err != nil {
		t.Fatal(err)
	}
	if events != 42 {
		t.Errorf("events stored = %d, want 42", events)
	}

	imports, err := s.ListImports(ctx, first.LogID)
	if err != nil {
		t.Fatalf("ListImports() failed: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("len(imports) = %d, want 2", len(imports))
	}
	if imports[0].RunID != first.RunID || !imports[0].Inserted {
		t.Errorf("imports[0] = %+v, want run %s inserted", imports[0], first.RunID)
	}
	if imports[1].Source != "b.xes" || imports[1].Inserted {
		t.Errorf("imports[1] = %+v, want b.xes not inserted", imports[1])
	}
}

func TestSaveLog_RunIDIsUUIDv7(t *testing.T) {
	s := createTestStore(t)

	res, err := s.SaveLog(context.Background(), "x", "x", eventlog.FromTraces([][]string{{"a"}}))
	if err != nil {
		t.Fatalf("SaveLog() failed: %v", err)
	}
	id, err := uuid.Parse(res.RunID)
	if err != nil {
		t.Fatalf("run ID %q is not a UUID: %v", res.RunID, err)
	}
	if id.Version() != 7 {
		t.Errorf("run ID version = %d, want 7", id.Version())
	}
}

func TestReadLog_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadLog(context.Background(), "missing")
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("ReadLog() error = %v, want ErrLogNotFound", err)
	}
}

func TestListLogs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	logs, err := s.ListLogs(ctx)
	if err != nil {
		t.Fatalf("ListLogs() failed: %v", err)
	}
	if logs == nil || len(logs) != 0 {
		t.Errorf("ListLogs() on empty store = %#v, want empty slice", logs)
	}

	a, _ := s.SaveLog(ctx, "a", "a", eventlog.FromTraces([][]string{{"a", "b"}}))
	b, _ := s.SaveLog(ctx, "b", "b", eventlog.FromTraces([][]string{{"c"}, {"d"}}))
	_, _ = s.SaveLog(ctx, "a again", "a", eventlog.FromTraces([][]string{{"a", "b"}}))

	logs, err = s.ListLogs(ctx)
	if err != nil {
		t.Fatalf("ListLogs() failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}

	byID := map[string]LogInfo{logs[0].ID: logs[0], logs[1].ID: logs[1]}
	if got := byID[a.LogID]; got.Name != "a" || got.ImportRuns != 2 || got.Events != 2 {
		t.Errorf("log a = %+v", got)
	}
	if got := byID[b.LogID]; got.Cases != 2 || got.ImportRuns != 1 {
		t.Errorf("log b = %+v", got)
	}
	if !logs[0].CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", logs[0].CreatedAt)
	}
}

func TestFindLog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	res, err := s.SaveLog(ctx, "a", "a", eventlog.FromTraces([][]string{{"a"}}))
	if err != nil {
		t.Fatalf("SaveLog() failed: %v", err)
	}

	for _, prefix := range []string{res.LogID, res.LogID[:8]} {
		info, err := s.FindLog(ctx, prefix)
		if err != nil {
			t.Fatalf("FindLog(%q) failed: %v", prefix, err)
		}
		if info.ID != res.LogID {
			t.Errorf("FindLog(%q) = %s, want %s", prefix, info.ID, res.LogID)
		}
	}

	for _, prefix := range []string{"", "zz", "%"} {
		if _, err := s.FindLog(ctx, prefix); !errors.Is(err, ErrLogNotFound) {
			t.Errorf("FindLog(%q) error = %v, want ErrLogNotFound", prefix, err)
		}
	}
}

func TestFindLog_Ambiguous(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Insert two logs whose IDs share a prefix.
	for _, id := range []string{"abc1", "abc2"} {
		_, err := s.db.Exec(
			"INSERT INTO logs (id, name, case_count, event_count, created_at) VALUES (?, ?, 0, 0, ?)",
			id, id, formatTime(s.now()),
		)
		if err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.FindLog(ctx, "abc"); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("FindLog() error = %v, want ErrAmbiguousID", err)
	}
	if info, err := s.FindLog(ctx, "abc2"); err != nil || info.ID != "abc2" {
		t.Errorf("FindLog(abc2) = %+v, %v", info, err)
	}
}

func TestDeleteLog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	res, err := s.SaveLog(ctx, "a", "a", runningExample(t))
	if err != nil {
		t.Fatalf("SaveLog() failed: %v", err)
	}

	if err := s.DeleteLog(ctx, res.LogID); err != nil {
		t.Fatalf("DeleteLog() failed: %v", err)
	}

	for _, table := range []string{"logs", "events", "imports"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows after delete, want 0", table, n)
		}
	}

	if err := s.DeleteLog(ctx, res.LogID); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("second DeleteLog() error = %v, want ErrLogNotFound", err)
	}
}

func TestAttributes_RoundTrip(t *testing.T) {
	data, err := marshalAttributes(map[string]string{"b": "<2>", "a": "1"})
	if err != nil {
		t.Fatal(err)
	}
	if data != `{"a":"1","b":"<2>"}` {
		t.Errorf("marshalAttributes() = %s", data)
	}

	attrs, err := unmarshalAttributes(data)
	if err != nil {
		t.Fatal(err)
	}
	if attrs["b"] != "<2>" {
		t.Errorf("attrs = %v", attrs)
	}

	empty, err := marshalAttributes(nil)
	if err != nil || empty != "{}" {
		t.Errorf("marshalAttributes(nil) = %q, %v", empty, err)
	}
	if attrs, _ := unmarshalAttributes(empty); attrs != nil {
		t.Errorf("unmarshalAttributes({}) = %v, want nil", attrs)
	}
}
