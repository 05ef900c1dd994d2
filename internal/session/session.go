// Package session tracks the logged-in username for the lifetime of the
// client. The in-memory value is the single source of truth: it hydrates
// from the session file once at startup and writes through on every
// change, but durable storage is never read again after hydration.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store holds the current username and notifies subscribers on change
type Store struct {
	mu       sync.Mutex
	path     string
	username string
	hydrated bool
	subs     []func(string)
}

type sessionData struct {
	Username string `json:"username"`
}

// New creates a Store persisting to the given file path. The file does
// not need to exist; it is created on first login.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the path of the per-user session file
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".taskboard", "session.json"), nil
}

// Hydrate loads the persisted username into memory. It runs at most once;
// later calls are no-ops so the file never becomes a second source of
// truth.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return
	}
	s.hydrated = true

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return // no persisted session, start logged out
	}

	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return
	}
	s.username = data.Username
}

// Username returns the current username; empty means logged out
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// LoggedIn reports whether an identity is set
func (s *Store) LoggedIn() bool {
	return s.Username() != ""
}

// SetUsername updates the identity and writes through to durable storage:
// a non-empty value is persisted, an empty value removes the persisted
// copy. Subscribers are notified after the value changes.
func (s *Store) SetUsername(username string) error {
	s.mu.Lock()
	s.username = username
	subs := s.subs

	var err error
	if username == "" {
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = fmt.Errorf("failed to remove session file: %w", rmErr)
		}
	} else {
		err = s.persist(username)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(username)
	}
	return err
}

// Subscribe registers a callback invoked with the new username after
// every change
func (s *Store) Subscribe(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) persist(username string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	raw, err := json.Marshal(sessionData{Username: username})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
