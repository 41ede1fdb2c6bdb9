package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credentials.json")
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := tempStorePath(t)

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if s.AccessToken() != "" || s.RefreshToken() != "" {
		t.Fatal("fresh store not empty")
	}

	if err := s.SaveTokens("access-1", "refresh-1"); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}
	if err := s.SaveUserID("user-42"); err != nil {
		t.Fatalf("SaveUserID: %v", err)
	}

	// Reopen: credentials survive the process boundary.
	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := s2.AccessToken(); got != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", got)
	}
	if got := s2.RefreshToken(); got != "refresh-1" {
		t.Errorf("RefreshToken = %q, want refresh-1", got)
	}
	if got := s2.UserID(); got != "user-42" {
		t.Errorf("UserID = %q, want user-42", got)
	}
}

func TestFileStore_RejectsPartialPair(t *testing.T) {
	s, err := NewFileStore(tempStorePath(t))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.SaveTokens("access-only", ""); err != ErrPartialCredentials {
		t.Errorf("SaveTokens(access, \"\") = %v, want ErrPartialCredentials", err)
	}
	if err := s.SaveTokens("", "refresh-only"); err != ErrPartialCredentials {
		t.Errorf("SaveTokens(\"\", refresh) = %v, want ErrPartialCredentials", err)
	}
	if s.AccessToken() != "" || s.RefreshToken() != "" {
		t.Error("rejected save mutated the store")
	}
}

func TestFileStore_Clear(t *testing.T) {
	path := tempStorePath(t)
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.SaveTokens("a", "r"); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.AccessToken() != "" || s.RefreshToken() != "" || s.UserID() != "" {
		t.Error("Clear left credentials behind")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Clear left the credential file on disk")
	}

	// Clearing an already-empty store is not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestFileStore_FilePermissions(t *testing.T) {
	path := tempStorePath(t)
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.SaveTokens("a", "r"); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credential file mode = %o, want 600", perm)
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	if err := s.SaveTokens("a", "r"); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}
	if s.AccessToken() != "a" || s.RefreshToken() != "r" {
		t.Error("MemStore did not hold tokens")
	}
	if err := s.SaveTokens("", "r"); err != ErrPartialCredentials {
		t.Errorf("partial save = %v, want ErrPartialCredentials", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.AccessToken() != "" {
		t.Error("Clear did not wipe tokens")
	}
}
