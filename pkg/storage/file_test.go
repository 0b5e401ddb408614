package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmato.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	// A bearer token is raw text, not JSON; the store must accept it as-is.
	if err := s.Set("kmato_jwt", []byte("eyJhbGciOiJIUzI1NiJ9.payload.sig")); err != nil {
		t.Fatalf("Set token: %v", err)
	}
	if err := s.Set("kmato_cart", []byte(`[{"id":1,"quantity":2}]`)); err != nil {
		t.Fatalf("Set cart: %v", err)
	}
	s.Close()

	// Reopen and verify contents survived byte for byte.
	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore reopen: %v", err)
	}
	defer s2.Close()

	v, err := s2.Get("kmato_jwt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "eyJhbGciOiJIUzI1NiJ9.payload.sig" {
		t.Errorf("unexpected token value after reload: %q", v)
	}

	v, err = s2.Get("kmato_cart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != `[{"id":1,"quantity":2}]` {
		t.Errorf("unexpected cart value after reload: %q", v)
	}
}

func TestFileStoreUndecodableValueStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmato.json")
	if err := os.WriteFile(path, []byte(`{"kmato_jwt":"not base64!!"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	v, _ := s.Get("kmato_jwt")
	if v != nil {
		t.Errorf("expected empty store after undecodable value, got %q", v)
	}
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	v, err := s.Get("kmato_jwt")
	if err != nil || v != nil {
		t.Errorf("expected empty store, got v=%q err=%v", v, err)
	}
}

func TestFileStoreMalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmato.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore should swallow malformed contents: %v", err)
	}
	defer s.Close()

	v, _ := s.Get("anything")
	if v != nil {
		t.Errorf("expected empty store after malformed file, got %q", v)
	}
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmato.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set("kmato_user", []byte(`{"id":3}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete("kmato_user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("kmato_user"); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
	s.Close()

	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	v, _ := s2.Get("kmato_user")
	if v != nil {
		t.Errorf("deleted key resurfaced after reload: %q", v)
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "kmato.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if err := s.Set("k", []byte(`1`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("backing file not created: %v", err)
	}
}
