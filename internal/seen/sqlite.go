package seen

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"bsky_watcher/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLiteStore implements Store backed by a SQLite database. It keeps the same
// bounded FIFO semantics as FileStore: rows beyond the retention cap are
// deleted oldest-first after every insert.
type SQLiteStore struct {
	mu        sync.Mutex
	db        *sql.DB
	retention int
}

// OpenSQLite opens (or creates) a SQLite seen-store at dsn and runs pending
// migrations. Unlike OpenFile this can fail: an unusable database is a
// configuration problem, not recoverable state.
func OpenSQLite(dsn string, retention int) (*SQLiteStore, error) {
	if retention < 1 {
		retention = DefaultRetention
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, retention: retention}, nil
}

// Contains reports whether id has already been recorded.
func (s *SQLiteStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow(`SELECT 1 FROM seen_posts WHERE id = ?`, id).Scan(&one)
	return err == nil
}

// Record inserts id and deletes rows beyond the retention cap, oldest first.
func (s *SQLiteStore) Record(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(timeLayout)
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO seen_posts (id, recorded_at) VALUES (?, ?)`,
		id, now,
	); err != nil {
		return fmt.Errorf("insert seen post: %w", err)
	}

	if _, err := s.db.Exec(
		`DELETE FROM seen_posts WHERE seq <= (
			SELECT seq FROM seen_posts ORDER BY seq DESC LIMIT 1 OFFSET ?
		)`, s.retention,
	); err != nil {
		return fmt.Errorf("evict seen posts: %w", err)
	}
	return nil
}

// Len returns the current number of retained IDs.
func (s *SQLiteStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM seen_posts`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
