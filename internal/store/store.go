package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the local snapshot of the last fetched records, so the dashboard
// still has data to show when the collector is unreachable. It also keeps
// user-tuned pipeline settings.
type Store struct {
	db *sqlx.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS records (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		source        TEXT NOT NULL,
		app           TEXT NOT NULL,
		browser       TEXT NOT NULL DEFAULT '',
		window_title  TEXT NOT NULL DEFAULT '',
		url           TEXT NOT NULL DEFAULT '',
		start_time    TEXT NOT NULL,
		duration_secs REAL NOT NULL,
		background    INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_records_start ON records(start_time);
	CREATE INDEX IF NOT EXISTS idx_records_app   ON records(app);

	CREATE TABLE IF NOT EXISTS input_samples (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		ts         TEXT NOT NULL,
		clicks     INTEGER NOT NULL DEFAULT 0,
		movements  INTEGER NOT NULL DEFAULT 0,
		key_events INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_input_samples_ts ON input_samples(ts);

	CREATE TABLE IF NOT EXISTS resource_samples (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		ts      TEXT NOT NULL,
		cpu     REAL NOT NULL DEFAULT 0,
		memory  REAL NOT NULL DEFAULT 0,
		disk    REAL NOT NULL DEFAULT 0,
		gpu     REAL NOT NULL DEFAULT 0,
		network REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('gap_threshold_seconds',    '10'),
		('cross_source_gap_seconds', '30'),
		('bucket_size_seconds',      '60'),
		('activity_threshold',       '5'),
		('passive_weight',           '0.1'),
		('default_visit_seconds',    '60');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/deskpulse/deskpulse.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "deskpulse", "deskpulse.db"), nil
}
