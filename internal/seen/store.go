// Package seen implements the bounded set of post IDs that have already
// produced a notification. The set retains only the most recently recorded N
// entries, evicted FIFO; membership is never refreshed by re-seeing an ID.
// It is the only source of idempotency in the system, since the feed has no
// server-side read marker.
package seen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultRetention is the number of post IDs kept when none is configured.
const DefaultRetention = 50

// Store is the interface shared by the file and sqlite backends. All methods
// are safe for concurrent use: both poll loops share one Store.
type Store interface {
	Contains(id string) bool
	Record(id string) error
	Len() int
	Close() error
}

// seenFile is the on-disk JSON shape, post IDs ordered oldest to newest.
type seenFile struct {
	Posts []string `json:"posts"`
}

// FileStore persists the seen set to a JSON file, rewritten wholesale after
// every Record.
type FileStore struct {
	mu        sync.Mutex
	path      string
	retention int
	ids       []string // oldest first
	index     map[string]struct{}
}

// OpenFile loads the seen set from path. A missing or unreadable file yields
// an empty set; a corrupt file is moved aside for diagnosis and also yields
// an empty set. Open never fails the caller.
func OpenFile(path string, retention int) *FileStore {
	if retention < 1 {
		retention = DefaultRetention
	}
	s := &FileStore{
		path:      path,
		retention: retention,
		index:     make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var f seenFile
	if err := json.Unmarshal(data, &f); err != nil {
		_ = os.WriteFile(path+".broken", data, 0o644)
		return s
	}

	s.ids = f.Posts
	s.truncateLocked()
	for _, id := range s.ids {
		s.index[id] = struct{}{}
	}
	return s
}

// Contains reports whether id has already been recorded.
func (s *FileStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

// Record adds id to the set, evicts beyond the retention cap, and rewrites
// the backing file. The in-memory set is updated even when the write fails,
// so a persistence error cannot cause a duplicate dispatch within this
// process lifetime.
func (s *FileStore) Record(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		s.ids = append(s.ids, id)
		s.index[id] = struct{}{}
		s.truncateLocked()
	}
	return s.persistLocked()
}

// Len returns the current number of retained IDs.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) truncateLocked() {
	for len(s.ids) > s.retention {
		delete(s.index, s.ids[0])
		s.ids = s.ids[1:]
	}
}

// persistLocked writes the set atomically via a temp file and rename.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(seenFile{Posts: s.ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen posts: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write seen posts: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename seen posts: %w", err)
	}
	return nil
}
