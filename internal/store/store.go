// Package store persists moon alerts in a local SQLite ledger so that
// scheduled notifications survive restarts and fire exactly once.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

var (
	// ErrNotFound is returned when an alert ID does not exist.
	ErrNotFound = errors.New("alert not found")
	// ErrAlreadyFired is returned by MarkFired for an alert that already fired.
	ErrAlreadyFired = errors.New("alert already fired")
)

// Kind identifies the lunar event an alert refers to.
type Kind string

// Alert kinds.
const (
	KindFullMoon       Kind = "full_moon"
	KindNewMoon        Kind = "new_moon"
	KindTripuraSundari Kind = "tripura_sundari"
)

// Alert is one scheduled notification for a lunar event.
type Alert struct {
	ID        int64
	Kind      Kind
	Place     string
	EventAt   time.Time
	Lead      time.Duration
	FiredAt   time.Time // zero until fired
	CreatedAt time.Time
}

// FireAt is the instant the alert becomes due.
func (a Alert) FireAt() time.Time { return a.EventAt.Add(-a.Lead) }

// Fired reports whether the alert has been delivered.
func (a Alert) Fired() bool { return !a.FiredAt.IsZero() }

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup. Instants are unix milliseconds.
const schema = `
CREATE TABLE IF NOT EXISTS alerts (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    kind       TEXT NOT NULL,
    place      TEXT NOT NULL DEFAULT '',
    event_at   INTEGER NOT NULL,
    lead_ms    INTEGER NOT NULL DEFAULT 0,
    fire_at    INTEGER NOT NULL,
    fired_at   INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(kind, place, event_at, lead_ms)
);

CREATE INDEX IF NOT EXISTS alerts_pending ON alerts (fired_at, fire_at);
`

// SQLiteStore is the alert ledger backed by a SQLite database in WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at dbPath, enables WAL mode and busy
// timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SameEventWindow is how far apart two event times may be and still name the
// same lunar event. Repeated searches for one event land within a minute or
// two of each other, while events of one kind are weeks apart.
const SameEventWindow = 12 * time.Hour

// Schedule records an alert unless one with the same kind, place and lead
// already exists for an event within SameEventWindow, so a fired alert is
// never re-armed. It reports whether a new row was inserted.
func (s *SQLiteStore) Schedule(ctx context.Context, a Alert) (bool, error) {
	const q = `
		INSERT OR IGNORE INTO alerts (kind, place, event_at, lead_ms, fire_at)
		SELECT ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE kind = ? AND place = ? AND lead_ms = ? AND event_at BETWEEN ? AND ?)`
	at := a.EventAt.UnixMilli()
	win := SameEventWindow.Milliseconds()
	lead := a.Lead.Milliseconds()
	res, err := s.db.ExecContext(ctx, q,
		string(a.Kind), a.Place, at, lead, a.FireAt().UnixMilli(),
		string(a.Kind), a.Place, lead, at-win, at+win)
	if err != nil {
		return false, fmt.Errorf("store: schedule %s at %s: %w", a.Kind, a.EventAt.UTC().Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: schedule rows affected: %w", err)
	}
	return n > 0, nil
}

// Due returns unfired alerts whose fire time is at or before now, oldest first.
func (s *SQLiteStore) Due(ctx context.Context, now time.Time) ([]Alert, error) {
	const q = `
		SELECT id, kind, place, event_at, lead_ms, fired_at, created_at
		FROM alerts WHERE fired_at IS NULL AND fire_at <= ?
		ORDER BY fire_at, id`
	return s.query(ctx, q, now.UnixMilli())
}

// Upcoming returns up to limit unfired alerts due after now.
func (s *SQLiteStore) Upcoming(ctx context.Context, now time.Time, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
		SELECT id, kind, place, event_at, lead_ms, fired_at, created_at
		FROM alerts WHERE fired_at IS NULL AND fire_at > ?
		ORDER BY fire_at, id LIMIT ?`
	return s.query(ctx, q, now.UnixMilli(), limit)
}

// MarkFired records that the alert was delivered at the given instant.
func (s *SQLiteStore) MarkFired(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE alerts SET fired_at = ? WHERE id = ? AND fired_at IS NULL", at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("store: mark fired %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: mark fired rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var fired sql.NullInt64
	err = s.db.QueryRowContext(ctx, "SELECT fired_at FROM alerts WHERE id = ?", id).Scan(&fired)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: alert %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store: lookup alert %d: %w", id, err)
	}
	return fmt.Errorf("store: alert %d: %w", id, ErrAlreadyFired)
}

// Prune deletes alerts for events before the given instant and returns how
// many rows were removed.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM alerts WHERE event_at < ?", before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("store: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: prune rows affected: %w", err)
	}
	return n, nil
}

// query is a shared helper for scanning alert rows.
func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query alerts: %w", err)
	}
	defer rows.Close()

	var result []Alert
	for rows.Next() {
		var (
			a       Alert
			kind    string
			eventAt int64
			leadMS  int64
			fired   sql.NullInt64
			ts      string
		)
		if err := rows.Scan(&a.ID, &kind, &a.Place, &eventAt, &leadMS, &fired, &ts); err != nil {
			return nil, fmt.Errorf("store: scan alert: %w", err)
		}
		createdAt, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("store: parse alert timestamp: %w", err)
		}
		a.Kind = Kind(kind)
		a.EventAt = time.UnixMilli(eventAt).UTC()
		a.Lead = time.Duration(leadMS) * time.Millisecond
		if fired.Valid {
			a.FiredAt = time.UnixMilli(fired.Int64).UTC()
		}
		a.CreatedAt = createdAt
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate alerts: %w", err)
	}
	return result, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339, while
// canonical SQLite returns the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
