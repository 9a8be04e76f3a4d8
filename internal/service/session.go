package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"authflow/internal/domain"

	"github.com/sirupsen/logrus"
)

// TokenStore - the single persisted bearer token slot
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in one file readable only by the owner
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load returns "" when no token was saved.
func (s *FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Save replaces the stored token atomically.
func (s *FileTokenStore) Save(token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore is a TokenStore that lives as long as the process
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Session - the authenticated context handed to whoever makes an
// authenticated call. Created on login, cleared on logout.
type Session struct {
	mu    sync.RWMutex
	store TokenStore
	token string
	user  *domain.UserInfo
	log   logrus.FieldLogger
}

func NewSession(store TokenStore, log logrus.FieldLogger) *Session {
	return &Session{store: store, log: log}
}

// Start records a successful login and persists the token.
func (s *Session) Start(token string, user domain.UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.token = token
	s.user = &user
	return nil
}

// Token returns the bearer token, falling back to the persisted slot.
// The slot is read under the lock so a concurrent Clear cannot be undone.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token, true
	}

	stored, err := s.store.Load()
	if err != nil {
		s.log.WithError(err).Warn("Failed to load persisted token")
		return "", false
	}
	if stored == "" {
		return "", false
	}
	s.token = stored
	return stored, true
}

// User returns the identity recorded at login, if any.
func (s *Session) User() (domain.UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.UserInfo{}, false
	}
	return *s.user, true
}

// Clear forgets the user and removes the persisted token.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
