// Package p2p stores the peer-to-peer exchange listings shown to bot
// users and managed through the web dashboard.
package p2p

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"kursbot/internal/storage"
)

var ErrNotFound = errors.New("seller not found")

// Seller is one advertised exchange offer.
type Seller struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
	Limit     string    `json:"limit"`
	Contact   string    `json:"contact"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists sellers in a single JSON file. Reads always go to
// disk so the file can be edited by hand between requests.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, "p2p.json")}
}

func (s *Store) List() []Seller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) Get(id int64) (Seller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seller := range s.read() {
		if seller.ID == id {
			return seller, true
		}
	}
	return Seller{}, false
}

// Add assigns the next free ID and appends the seller.
func (s *Store) Add(seller Seller) (Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sellers := s.read()
	var maxID int64
	for _, existing := range sellers {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	seller.ID = maxID + 1
	seller.UpdatedAt = time.Now().UTC()
	sellers = append(sellers, seller)
	return seller, s.write(sellers)
}

func (s *Store) Update(seller Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sellers := s.read()
	for i := range sellers {
		if sellers[i].ID == seller.ID {
			seller.UpdatedAt = time.Now().UTC()
			sellers[i] = seller
			return s.write(sellers)
		}
	}
	return ErrNotFound
}

func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sellers := s.read()
	for i := range sellers {
		if sellers[i].ID == id {
			sellers = append(sellers[:i], sellers[i+1:]...)
			return s.write(sellers)
		}
	}
	return ErrNotFound
}

func (s *Store) read() []Seller {
	var sellers []Seller
	storage.ReadJSON(s.path, &sellers)
	return sellers
}

func (s *Store) write(sellers []Seller) error {
	if sellers == nil {
		sellers = []Seller{}
	}
	return storage.WriteJSON(s.path, sellers)
}
