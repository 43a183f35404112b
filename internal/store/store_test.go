package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// testStore creates a temporary ledger for testing and registers cleanup.
func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.tattva.db")
	s, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var fullMoon = time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC)

func TestOpen(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}

	var name string
	if err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='alerts'").Scan(&name); err != nil {
		t.Fatalf("alerts table not created: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Schedule(ctx, Alert{Kind: KindFullMoon, EventAt: fullMoon}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	due, err := s.Due(ctx, fullMoon)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Fatalf("len(Due) = %d after reopen, want 1", len(due))
	}
}

func TestSchedule_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	a := Alert{Kind: KindFullMoon, Place: "Tokyo", EventAt: fullMoon, Lead: 24 * time.Hour}
	inserted, err := s.Schedule(ctx, a)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if !inserted {
		t.Error("first Schedule should insert")
	}
	inserted, err = s.Schedule(ctx, a)
	if err != nil {
		t.Fatalf("Schedule again: %v", err)
	}
	if inserted {
		t.Error("second Schedule should be a no-op")
	}

	// A repeated search that lands a minute later names the same event.
	if ok, _ := s.Schedule(ctx, Alert{Kind: KindFullMoon, Place: "Tokyo", EventAt: fullMoon.Add(time.Minute), Lead: 24 * time.Hour}); ok {
		t.Error("event within SameEventWindow should not insert")
	}
	// The next lunation is a separate alert.
	if ok, _ := s.Schedule(ctx, Alert{Kind: KindFullMoon, Place: "Tokyo", EventAt: fullMoon.AddDate(0, 0, 29), Lead: 24 * time.Hour}); !ok {
		t.Error("next month's event should insert")
	}

	// A different lead or place is a separate alert.
	if ok, _ := s.Schedule(ctx, Alert{Kind: KindFullMoon, Place: "Tokyo", EventAt: fullMoon}); !ok {
		t.Error("zero-lead alert should insert")
	}
	if ok, _ := s.Schedule(ctx, Alert{Kind: KindFullMoon, Place: "Mumbai", EventAt: fullMoon, Lead: 24 * time.Hour}); !ok {
		t.Error("other place should insert")
	}

	up, err := s.Upcoming(ctx, fullMoon.Add(-48*time.Hour), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 4 {
		t.Fatalf("len(Upcoming) = %d, want 4", len(up))
	}
}

func TestDueAndMarkFired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	leads := []time.Duration{24 * time.Hour, time.Hour, 0}
	for _, lead := range leads {
		if _, err := s.Schedule(ctx, Alert{Kind: KindFullMoon, EventAt: fullMoon, Lead: lead}); err != nil {
			t.Fatal(err)
		}
	}

	now := fullMoon.Add(-30 * time.Minute)
	due, err := s.Due(ctx, now)
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("len(Due) = %d, want 2", len(due))
	}
	if due[0].Lead != 24*time.Hour || due[1].Lead != time.Hour {
		t.Errorf("Due order = %v, %v; want 24h then 1h", due[0].Lead, due[1].Lead)
	}
	if !due[0].EventAt.Equal(fullMoon) {
		t.Errorf("EventAt = %v, want %v", due[0].EventAt, fullMoon)
	}
	if !due[1].FireAt().Equal(fullMoon.Add(-time.Hour)) {
		t.Errorf("FireAt = %v", due[1].FireAt())
	}
	if due[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}

	for _, a := range due {
		if err := s.MarkFired(ctx, a.ID, now); err != nil {
			t.Fatalf("MarkFired(%d): %v", a.ID, err)
		}
	}

	due, err = s.Due(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("len(Due) after firing = %d, want 0", len(due))
	}

	up, err := s.Upcoming(ctx, now, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 1 || up[0].Lead != 0 {
		t.Fatalf("Upcoming = %+v, want only the zero-lead alert", up)
	}
}

func TestMarkFired_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	if err := s.MarkFired(ctx, 42, fullMoon); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkFired(missing) = %v, want ErrNotFound", err)
	}

	if _, err := s.Schedule(ctx, Alert{Kind: KindNewMoon, EventAt: fullMoon}); err != nil {
		t.Fatal(err)
	}
	due, err := s.Due(ctx, fullMoon)
	if err != nil || len(due) != 1 {
		t.Fatalf("Due = %v, %v", due, err)
	}
	if err := s.MarkFired(ctx, due[0].ID, fullMoon); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkFired(ctx, due[0].ID, fullMoon); !errors.Is(err, ErrAlreadyFired) {
		t.Errorf("MarkFired twice = %v, want ErrAlreadyFired", err)
	}

	// Rescheduling a fired alert does not re-arm it.
	if ok, err := s.Schedule(ctx, Alert{Kind: KindNewMoon, EventAt: fullMoon}); err != nil || ok {
		t.Errorf("Schedule(fired) = %v, %v; want false, nil", ok, err)
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	old := fullMoon.AddDate(0, -1, 0)
	for _, at := range []time.Time{old, fullMoon} {
		if _, err := s.Schedule(ctx, Alert{Kind: KindTripuraSundari, EventAt: at}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Prune(ctx, fullMoon.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d rows, want 1", n)
	}
	up, err := s.Upcoming(ctx, old.Add(-time.Hour), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 1 || !up[0].EventAt.Equal(fullMoon) {
		t.Errorf("remaining = %+v", up)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01-25T17:54:00Z", false},
		{"2024-01-25 17:54:00", false},
		{"yesterday", true},
	}
	for _, tt := range tests {
		_, err := parseTimestamp(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTimestamp(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
