// Package cache implements the incremental content-hash cache the driver
// uses to skip re-transforming files whose text hasn't changed since the
// last run (spec §4.G) — a sqlite-backed cache keyed by path, grounded on
// the teacher's file_hashes table but scoped to one project directory
// rather than a named, multi-project graph store.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zeebo/xxh3"
)

// Store wraps a SQLite connection recording, per source path, the xxh3
// content hash last seen and the transform run's outcome.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the cache database path under the user's cache
// directory, mirroring the teacher's per-project db file layout.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	dir = filepath.Join(dir, "qrlcapture")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache dir: %w", err)
	}
	return filepath.Join(dir, "transform-cache.db"), nil
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory cache database, for tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory cache db: %w", err)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS file_cache (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		edited INTEGER NOT NULL,
		checked_at TEXT NOT NULL
	);`)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ContentHash returns the xxh3 hash of source as a fixed-width hex string.
func ContentHash(source []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(source))
}

// Lookup reports whether path's stored hash matches hash, and if so, the
// edited flag recorded for that transform run — enough for the driver to
// skip both the rewrite and the write-back for an unchanged file.
func (s *Store) Lookup(path, hash string) (edited bool, hit bool, err error) {
	var storedHash string
	var storedEdited int
	err = s.db.QueryRow(
		"SELECT content_hash, edited FROM file_cache WHERE path = ?", path,
	).Scan(&storedHash, &storedEdited)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	if storedHash != hash {
		return false, false, nil
	}
	return storedEdited != 0, true, nil
}

// Record stores the outcome of transforming path at the given content hash.
func (s *Store) Record(path, hash string, edited bool) error {
	e := 0
	if edited {
		e = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO file_cache (path, content_hash, edited, checked_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content_hash=excluded.content_hash, edited=excluded.edited, checked_at=excluded.checked_at`,
		path, hash, e, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Forget removes a path's cache entry.
func (s *Store) Forget(path string) error {
	_, err := s.db.Exec("DELETE FROM file_cache WHERE path = ?", path)
	return err
}
