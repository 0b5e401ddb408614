package storage

import (
	"testing"
)

func TestMemoryStoreBasic(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	// Missing key is (nil, nil)
	v, err := s.Get("kmato_jwt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for missing key, got %q", v)
	}

	if err := s.Set("kmato_jwt", []byte("token-1")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, err = s.Get("kmato_jwt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "token-1" {
		t.Errorf("expected token-1, got %q", v)
	}

	// Overwrite
	if err := s.Set("kmato_jwt", []byte("token-2")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ = s.Get("kmato_jwt")
	if string(v) != "token-2" {
		t.Errorf("expected token-2, got %q", v)
	}

	// Delete is idempotent
	if err := s.Delete("kmato_jwt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("kmato_jwt"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	v, _ = s.Get("kmato_jwt")
	if v != nil {
		t.Errorf("expected nil after delete, got %q", v)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	original := []byte(`{"id":1}`)
	if err := s.Set("kmato_user", original); err != nil {
		t.Fatalf("Set: %v", err)
	}
	original[0] = 'X'

	v, _ := s.Get("kmato_user")
	if string(v) != `{"id":1}` {
		t.Errorf("stored value mutated by caller, got %q", v)
	}

	// Mutating the returned slice must not affect the store either
	v[0] = 'Y'
	v2, _ := s.Get("kmato_user")
	if string(v2) != `{"id":1}` {
		t.Errorf("stored value mutated via Get result, got %q", v2)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := s.Get("k"); err == nil {
		t.Error("expected error on Get after Close")
	}
	if err := s.Set("k", []byte("v")); err == nil {
		t.Error("expected error on Set after Close")
	}
	// Double close is fine
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
