package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"statsd/metrics"
)

// SQLite stores records as rows of the `metrics` table.
type SQLite struct {
	db   *sql.DB
	path string
	log  *zap.Logger
}

// NewSQLite opens (or creates) the SQLite file at dbPath and resets the
// `metrics` table. The caller must call Close() when done.
func NewSQLite(dbPath string, opts ...Option) (*SQLite, error) {
	o := applyOptions(opts)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create dir %s: %w", ErrWrite, dir, err)
		}
	}

	// The modernc.org driver is pure-go and works without CGO.
	dsn := fmt.Sprintf("file:%s?_fk=1", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %w", ErrWrite, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %w", ErrWrite, err)
	}

	s := &SQLite{db: db, path: dbPath, log: o.log.With(zap.String("path", dbPath))}
	if err := s.Setup(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Setup implements Store. Any existing rows are discarded.
func (s *SQLite) Setup() error {
	const stmt = `
DROP TABLE IF EXISTS metrics;
CREATE TABLE metrics (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    ts        TEXT NOT NULL,
    name      TEXT NOT NULL,
    value     INTEGER NOT NULL
);
CREATE INDEX idx_metrics_name_ts ON metrics(name, ts);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("%w: create metrics table: %w", ErrWrite, err)
	}
	s.log.Debug("SQLite metrics table reset")
	return nil
}

// Save implements Store. The batch is written in a single transaction, so
// either every record is stored or none is.
func (s *SQLite) Save(records []metrics.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", ErrWrite, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO metrics (ts, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %w", ErrWrite, err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Timestamp, r.Name, r.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert %s: %w", ErrWrite, r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx: %w", ErrWrite, err)
	}
	s.log.Debug("records persisted", zap.Int("records", len(records)))
	return nil
}

// Close shuts down the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Store = (*SQLite)(nil)
