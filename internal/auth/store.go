package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrPartialCredentials is returned when a save would leave the store with
// only one half of the token pair. Access and refresh tokens are both
// present or both absent, never one without the other.
var ErrPartialCredentials = errors.New("auth: access and refresh token must be saved together")

// Credentials is the persisted token pair plus the user it belongs to.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id,omitempty"`
}

// Store is the secure credential store consumed by the session client.
// Implementations must be safe for concurrent use; the session layer may
// read and write from multiple in-flight sends.
type Store interface {
	AccessToken() string
	RefreshToken() string
	UserID() string
	// SaveTokens replaces the token pair. Both tokens must be non-empty.
	SaveTokens(access, refresh string) error
	SaveUserID(id string) error
	// Clear wipes all credentials atomically (logout).
	Clear() error
}

// ── File store ───────────────────────────────────────────────────────────────

// FileStore persists credentials as a 0600 JSON file under the user config
// dir. Writes go through a temp file + rename so a crash never leaves a
// partially written credential file.
type FileStore struct {
	mu    sync.Mutex
	path  string
	creds Credentials
}

// DefaultCredentialsPath returns ~/.config/squadctl/credentials.json.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "squadctl", "credentials.json"), nil
}

// NewFileStore opens the store at path, loading existing credentials if the
// file is present. A missing file is an empty store, not an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &s.creds); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.AccessToken
}

func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.RefreshToken
}

func (s *FileStore) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.UserID
}

func (s *FileStore) SaveTokens(access, refresh string) error {
	if access == "" || refresh == "" {
		return ErrPartialCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.creds
	s.creds.AccessToken = access
	s.creds.RefreshToken = refresh
	if err := s.persistLocked(); err != nil {
		s.creds = prev
		return err
	}
	return nil
}

func (s *FileStore) SaveUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.creds
	s.creds.UserID = id
	if err := s.persistLocked(); err != nil {
		s.creds = prev
		return err
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	return writeFileAtomic(s.path, data, 0o600)
}

// writeFileAtomic writes via a temp file in the same directory, fsyncs, then
// renames over the target. Either the old file or the complete new file
// exists at every point.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	f, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	ok := false
	defer func() {
		if !ok {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync credentials: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename credentials: %w", err)
	}
	ok = true
	return nil
}

// ── In-memory store ──────────────────────────────────────────────────────────

// MemStore is a Store without persistence, for tests and ephemeral sessions.
type MemStore struct {
	mu    sync.Mutex
	creds Credentials
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.AccessToken
}

func (s *MemStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.RefreshToken
}

func (s *MemStore) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.UserID
}

func (s *MemStore) SaveTokens(access, refresh string) error {
	if access == "" || refresh == "" {
		return ErrPartialCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = access
	s.creds.RefreshToken = refresh
	return nil
}

func (s *MemStore) SaveUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.UserID = id
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}
