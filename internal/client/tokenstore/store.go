// Package tokenstore owns the bearer credential of the active session.
// The credential is the sole source of truth for "is a session active":
// it exists from a successful login until logout or an authentication
// rejection, and no other component persists it.
package tokenstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists and retrieves the bearer token. Get never fails: absence
// is an ordinary result meaning the session is unauthenticated.
type Store interface {
	Set(token string) error
	Get() string
	Clear() error
}

// FileStore keeps the token in a mode-0600 file so a session survives
// process restarts. The file is read once at construction and mirrored in
// memory, so Get performs no I/O and is safe to call from synchronous
// paths such as the route guard.
type FileStore struct {
	mu    sync.Mutex
	path  string
	token string
}

// NewFileStore loads any previously stored token from path. A missing file
// or directory is not an error: the store simply starts unauthenticated.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	s.token = strings.TrimSpace(string(b))
	return s, nil
}

// Set writes the token to disk and then updates the in-memory mirror.
// The mirror is updated only after the write succeeds, so a failed Set
// leaves the previous session state intact.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Get returns the current token, or the empty string when no session is
// active.
func (s *FileStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Clear destroys the credential. Removing an already-absent file is not an
// error; the in-memory mirror is dropped regardless so the very next Get
// reports an unauthenticated session.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
