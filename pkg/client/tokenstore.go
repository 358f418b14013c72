package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"cinefilia/internal/domain"
)

// TokenStore keeps the session between calls: the bearer token and the
// profile of the logged-in user.
type TokenStore interface {
	Token() (string, error)
	User() (*domain.User, error)
	Save(token string, u domain.User) error
	Clear() error
}

type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) User() (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryStore) Save(token string, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = token, &u
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = "", nil
	return nil
}

// FileStore persists the session as JSON at Path (0600).
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

type session struct {
	AuthToken string       `json:"authToken"`
	User      *domain.User `json:"user,omitempty"`
}

func (f *FileStore) load() (session, error) {
	var s session
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("session file %s: %w", f.Path, err)
	}
	return s, nil
}

func (f *FileStore) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	return s.AuthToken, err
}

func (f *FileStore) User() (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.load()
	return s.User, err
}

func (f *FileStore) Save(token string, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := json.MarshalIndent(session{AuthToken: token, User: &u}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	// write-then-rename so a crash never leaves half a file
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
