package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenPair is the access/refresh token pair issued by the API.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (p TokenPair) Empty() bool {
	return p.Token == "" && p.RefreshToken == ""
}

// Store persists a token pair. FileStore survives the process (remember-me),
// MemStore lives only as long as the process.
type Store interface {
	Get() (TokenPair, bool)
	Set(TokenPair) error
	Clear() error
}

// MemStore keeps the token pair in process memory.
type MemStore struct {
	mu   sync.RWMutex
	pair TokenPair
	set  bool
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Get() (TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, s.set
}

func (s *MemStore) Set(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.set = true
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.set = false
	return nil
}

// FileStore persists the token pair as a 0600 JSON file. Any process sharing
// the same data dir observes writes and clears.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, "session.json")}
}

func (s *FileStore) Get() (TokenPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return TokenPair{}, false
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return TokenPair{}, false
	}
	if pair.Empty() {
		return TokenPair{}, false
	}
	return pair, true
}

func (s *FileStore) Set(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
