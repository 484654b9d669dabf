// Package mismatchlog keeps a SQLite record of reported mismatches so that
// runs can be compared after the fact.
package mismatchlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funvibe/typedemand/internal/demand"
)

const schema = `
CREATE TABLE IF NOT EXISTS mismatches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session     TEXT    NOT NULL,
	relation    TEXT    NOT NULL,
	file        TEXT    NOT NULL DEFAULT '',
	line        INTEGER NOT NULL DEFAULT 0,
	col         INTEGER NOT NULL DEFAULT 0,
	expected    TEXT    NOT NULL,
	actual      TEXT    NOT NULL,
	cause_kind  TEXT    NOT NULL DEFAULT '',
	cause       TEXT    NOT NULL DEFAULT '',
	recorded_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS mismatches_session ON mismatches(session);
`

// Entry is one recorded mismatch.
type Entry struct {
	ID         int64
	Session    string
	Relation   string
	File       string
	Line       int
	Column     int
	Expected   string
	Actual     string
	CauseKind  string
	Cause      string
	RecordedAt time.Time
}

// Store is a mismatch log backed by a SQLite database file.
// It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory log.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening mismatch log %s: %w", path, err)
	}
	// SQLite has a single writer; an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating mismatch log %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores m under session.
func (s *Store) Record(ctx context.Context, session string, m demand.Mismatch) error {
	var causeKind, cause string
	if m.Cause != nil {
		causeKind = m.Cause.Kind.String()
		cause = m.Cause.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mismatches (session, relation, file, line, col, expected, actual, cause_kind, cause, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session, m.Relation.String(),
		m.Span.File, m.Span.Line, m.Span.Column,
		typeString(m.Expected), typeString(m.Actual),
		causeKind, cause,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording mismatch: %w", err)
	}
	return nil
}

// List returns the entries of session in recording order, or every entry if
// session is empty.
func (s *Store) List(ctx context.Context, session string) ([]Entry, error) {
	query := `SELECT id, session, relation, file, line, col, expected, actual, cause_kind, cause, recorded_at
	          FROM mismatches`
	var args []any
	if session != "" {
		query += ` WHERE session = ?`
		args = append(args, session)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing mismatches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt string
		if err := rows.Scan(&e.ID, &e.Session, &e.Relation, &e.File, &e.Line, &e.Column,
			&e.Expected, &e.Actual, &e.CauseKind, &e.Cause, &recordedAt); err != nil {
			return nil, fmt.Errorf("reading mismatch: %w", err)
		}
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("mismatch %d: bad timestamp %q: %w", e.ID, recordedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func typeString(t fmt.Stringer) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// Tee returns a sink that records every mismatch in store under session and
// then forwards it to next. A failed write is logged and never blocks the
// report.
func Tee(store *Store, session string, next demand.Sink, logger *slog.Logger) demand.Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &teeSink{store: store, session: session, next: next, logger: logger}
}

type teeSink struct {
	store   *Store
	session string
	next    demand.Sink
	logger  *slog.Logger
}

func (t *teeSink) ReportMismatch(m demand.Mismatch) {
	if err := t.store.Record(context.Background(), t.session, m); err != nil {
		t.logger.Warn("mismatch not recorded", "session", t.session, "error", err)
	}
	t.next.ReportMismatch(m)
}
