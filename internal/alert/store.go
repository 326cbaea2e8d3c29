package alert

import (
	"path/filepath"
	"sync"

	"kursbot/internal/storage"
)

const alertsFile = "alerts.json"

// Store is the file-backed alert collection, the single source of truth for
// both the chat front-end and the checker loop. Every operation reads the
// file fresh, so external hand-edits and the admin surface are picked up on
// the next access instead of drifting against an in-memory view.
//
// Writes are best-effort: a failed write is returned to the caller to log,
// but alerts are low-stakes reminders and no caller treats it as fatal.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store persisting to alerts.json under dataDir.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, alertsFile)}
}

// List returns all alerts in insertion order. A missing, unreadable or
// corrupted file yields an empty collection, never an error.
func (s *Store) List() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// ListForOwner returns the owner's alerts, preserving insertion order.
// The 1-based position within this slice is the ordinal users see.
func (s *Store) ListForOwner(owner int64) []Alert {
	var out []Alert
	for _, a := range s.List() {
		if a.OwnerID == owner {
			out = append(out, a)
		}
	}
	return out
}

// Append adds one alert to the collection and writes it back.
func (s *Store) Append(a Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := append(s.read(), a)
	return s.write(items)
}

// Deactivate flips the owner's ordinal-th alert (1-based, counted over the
// owner's full subsequence including inactive records) to inactive.
// Returns false without touching anything if the ordinal is out of range.
func (s *Store) Deactivate(owner int64, ordinal int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.read()
	seen := 0
	for i := range items {
		if items[i].OwnerID != owner {
			continue
		}
		seen++
		if seen == ordinal {
			items[i].Active = false
			return true, s.write(items)
		}
	}
	return false, nil
}

// Replace overwrites the whole collection in one batched write. The checker
// loop uses it once per cycle after evaluation is decided.
func (s *Store) Replace(items []Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(items)
}

func (s *Store) read() []Alert {
	var items []Alert
	if !storage.ReadJSON(s.path, &items) {
		return nil
	}
	return items
}

func (s *Store) write(items []Alert) error {
	if items == nil {
		items = []Alert{}
	}
	return storage.WriteJSON(s.path, items)
}
