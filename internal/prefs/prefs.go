// Package prefs keeps per-user chat preferences in small JSON files:
// the interface language and whether the user accepted the disclaimer.
package prefs

import (
	"path/filepath"
	"strconv"
	"sync"

	"kursbot/internal/storage"
)

const (
	LangUA = "ua"
	LangEN = "en"
)

// Store persists preferences under the data directory. Every lookup
// reads the files fresh so edits made by hand are picked up.
type Store struct {
	langPath     string
	acceptedPath string
	mu           sync.Mutex
}

func NewStore(dataDir string) *Store {
	return &Store{
		langPath:     filepath.Join(dataDir, "lang.json"),
		acceptedPath: filepath.Join(dataDir, "accepted.json"),
	}
}

// Lang returns the user's interface language, defaulting to Ukrainian.
func (s *Store) Lang(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	langs := map[string]string{}
	storage.ReadJSON(s.langPath, &langs)
	if lang, ok := langs[key(userID)]; ok && (lang == LangUA || lang == LangEN) {
		return lang
	}
	return LangUA
}

func (s *Store) SetLang(userID int64, lang string) error {
	if lang != LangUA && lang != LangEN {
		lang = LangUA
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	langs := map[string]string{}
	storage.ReadJSON(s.langPath, &langs)
	langs[key(userID)] = lang
	return storage.WriteJSON(s.langPath, langs)
}

// Accepted reports whether the user has agreed to the disclaimer.
func (s *Store) Accepted(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := map[string]bool{}
	storage.ReadJSON(s.acceptedPath, &accepted)
	return accepted[key(userID)]
}

func (s *Store) Accept(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := map[string]bool{}
	storage.ReadJSON(s.acceptedPath, &accepted)
	accepted[key(userID)] = true
	return storage.WriteJSON(s.acceptedPath, accepted)
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
