package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a RecordStore backed by a single SQLite table keyed by
// (kind, id). WAL mode with a busy timeout keeps concurrent access safe.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (kind, id)
);`

// NewSQLiteStore opens (or creates) the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load implements RecordStore.
func (s *SQLiteStore) Load(kind, id string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM records WHERE kind = ? AND id = ?`, kind, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save implements RecordStore.
func (s *SQLiteStore) Save(kind, id string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO records (kind, id, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		kind, id, data, time.Now().UTC(),
	)
	return err
}

// Close implements RecordStore.
func (s *SQLiteStore) Close() error { return s.db.Close() }
