// Package cache stores raw CrossRef work responses in a local SQLite
// database so repeated conversions of the same DOI skip the network.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL is how long a cached response stays fresh.
const DefaultTTL = 30 * 24 * time.Hour

// Store wraps a SQLite database of cached work responses, keyed by
// cleaned DOI.
type Store struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Open opens or creates the cache database at path. A non-positive ttl
// disables reads: Get always misses, Put still records.
func Open(path string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db, path: path, ttl: ttl, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS works (
			doi TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Get returns the cached raw message for a DOI while it is fresh.
// The second return reports a hit; an expired or absent entry is a miss,
// not an error.
func (s *Store) Get(doi string) ([]byte, bool, error) {
	if s.ttl <= 0 {
		return nil, false, nil
	}

	var payload string
	var fetchedAt int64
	err := s.db.QueryRow(`SELECT payload, fetched_at FROM works WHERE doi = ?`, doi).
		Scan(&payload, &fetchedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	if s.now().Sub(time.Unix(fetchedAt, 0)) > s.ttl {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// Put records the raw message for a DOI, replacing any previous entry.
func (s *Store) Put(doi string, payload []byte) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO works (doi, payload, fetched_at)
		VALUES (?, ?, ?)
	`, doi, string(payload), s.now().Unix())
	return err
}

// Clear removes all cached entries and returns how many were dropped.
func (s *Store) Clear() (int, error) {
	res, err := s.db.Exec("DELETE FROM works")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Stats describes the cache contents.
type Stats struct {
	Entries int
	Fresh   int
	Oldest  time.Time
}

// Stats reports entry counts and the age of the oldest entry.
func (s *Store) Stats() (Stats, error) {
	var st Stats

	if err := s.db.QueryRow("SELECT COUNT(*) FROM works").Scan(&st.Entries); err != nil {
		return Stats{}, err
	}

	if s.ttl > 0 {
		cutoff := s.now().Add(-s.ttl).Unix()
		err := s.db.QueryRow("SELECT COUNT(*) FROM works WHERE fetched_at > ?", cutoff).
			Scan(&st.Fresh)
		if err != nil {
			return Stats{}, err
		}
	}

	var oldest sql.NullInt64
	if err := s.db.QueryRow("SELECT MIN(fetched_at) FROM works").Scan(&oldest); err != nil {
		return Stats{}, err
	}
	if oldest.Valid {
		st.Oldest = time.Unix(oldest.Int64, 0)
	}

	return st, nil
}
