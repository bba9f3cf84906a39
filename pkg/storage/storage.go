package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS share_events (
  id          TEXT PRIMARY KEY,
  shared_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  object_id   TEXT NOT NULL,
  name        TEXT,
  url         TEXT,
  source      TEXT,
  hazardous   INTEGER NOT NULL CHECK (hazardous IN (0,1))
);
CREATE INDEX IF NOT EXISTS idx_shares_time ON share_events(shared_at);
CREATE INDEX IF NOT EXISTS idx_shares_object ON share_events(object_id, shared_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordShare appends e to the log. A missing ID or timestamp is filled in;
// the stored entry is returned.
func (d *DB) RecordShare(ctx context.Context, e ShareEntry) (ShareEntry, error) {
	if e.ObjectID == "" {
		return ShareEntry{}, errors.New("share entry without object id")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SharedAt.IsZero() {
		e.SharedAt = time.Now()
	}
	e.SharedAt = e.SharedAt.UTC().Truncate(time.Second)

	_, err := d.sql.ExecContext(ctx, `INSERT INTO share_events(id, shared_at, object_id, name, url, source, hazardous) VALUES(?,?,?,?,?,?,?)`,
		e.ID, e.SharedAt.Format(timestampLayout), e.ObjectID, nullIfEmpty(e.Name), nullIfEmpty(e.URL), nullIfEmpty(e.Source), boolToInt(e.Hazardous))
	if err != nil {
		return ShareEntry{}, err
	}
	return e, nil
}

// ListRecentShares returns the most recent N share events, newest first.
func (d *DB) ListRecentShares(ctx context.Context, limit int) ([]ShareEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT id, shared_at, object_id, name, url, source, hazardous FROM share_events ORDER BY shared_at DESC, rowid DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []ShareEntry{}
	for rows.Next() {
		var e ShareEntry
		var sharedAtStr string
		var name, u, source sql.NullString
		var hazardous int
		if err := rows.Scan(&e.ID, &sharedAtStr, &e.ObjectID, &name, &u, &source, &hazardous); err != nil {
			return nil, err
		}
		e.SharedAt = parseTimestamp(sharedAtStr)
		e.Name = name.String
		e.URL = u.String
		e.Source = source.String
		e.Hazardous = hazardous == 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type SourceStats struct {
	Source      string
	ShareCount  int
	ObjectCount int
}

// GetStats groups the log by share source domain.
func (d *DB) GetStats(ctx context.Context) ([]SourceStats, error) {
	query := `
		SELECT
			COALESCE(source, ''),
			COUNT(*),
			COUNT(DISTINCT object_id)
		FROM
			share_events
		GROUP BY
			COALESCE(source, '')
		ORDER BY
			1;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var s SourceStats
		if err := rows.Scan(&s.Source, &s.ShareCount, &s.ObjectCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

const timestampLayout = "2006-01-02 15:04:05"

// parseTimestamp accepts SQLite's CURRENT_TIMESTAMP format and RFC3339.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
