package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"authflow/internal/domain"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	if tok, err := store.Load(); err != nil || tok != "" {
		t.Fatalf("Load on empty store = %q, %v", tok, err)
	}
	if err := store.Save("abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o", perm)
	}

	if tok, _ := store.Load(); tok != "abc" {
		t.Errorf("Load = %q", tok)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("token file still present: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	s := NewSession(store, testLogger())

	if _, ok := s.Token(); ok {
		t.Fatal("fresh session has a token")
	}

	user := domain.UserInfo{ID: 1, Username: "alice", Email: "alice@example.com"}
	if err := s.Start("tok", user); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tok, ok := s.Token(); !ok || tok != "tok" {
		t.Errorf("Token = %q, %v", tok, ok)
	}
	if got, ok := s.User(); !ok || got != user {
		t.Errorf("User = %+v, %v", got, ok)
	}

	// a new session over the same store sees the persisted token
	reloaded := NewSession(store, testLogger())
	if tok, ok := reloaded.Token(); !ok || tok != "tok" {
		t.Errorf("reloaded Token = %q, %v", tok, ok)
	}
	if _, ok := reloaded.User(); ok {
		t.Error("user identity must not be persisted")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Error("token survived Clear")
	}
	if tok, _ := store.Load(); tok != "" {
		t.Errorf("persisted token survived Clear: %q", tok)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	store.Save("x")
	if tok, _ := store.Load(); tok != "x" {
		t.Errorf("Load = %q", tok)
	}
	store.Clear()
	if tok, _ := store.Load(); tok != "" {
		t.Errorf("Load after Clear = %q", tok)
	}
}

// racingStore holds its first Load open briefly so a Clear can try to land
// between the read and the session update.
type racingStore struct {
	*MemoryTokenStore
	once    sync.Once
	loading chan struct{}
	cleared chan struct{}
}

func (r *racingStore) Load() (string, error) {
	tok, err := r.MemoryTokenStore.Load()
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.loading)
		select {
		case <-r.cleared:
		case <-time.After(50 * time.Millisecond):
		}
	}
	return tok, err
}

func (r *racingStore) Clear() error {
	err := r.MemoryTokenStore.Clear()
	close(r.cleared)
	return err
}

func TestClearDuringTokenReloadWins(t *testing.T) {
	store := &racingStore{
		MemoryTokenStore: NewMemoryTokenStore(),
		loading:          make(chan struct{}),
		cleared:          make(chan struct{}),
	}
	store.Save("stale")
	s := NewSession(store, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Token()
	}()

	<-store.loading
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	<-done

	if tok, ok := s.Token(); ok {
		t.Errorf("token %q came back after Clear", tok)
	}
}
