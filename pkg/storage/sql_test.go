package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/glebarez/go-sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)

	s := NewSQLStore(db)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	v, err := s.Get("kmato_jwt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for missing key, got %q", v)
	}

	if err := s.Set("kmato_jwt", []byte("tok")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("kmato_jwt", []byte("tok2")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	v, err = s.Get("kmato_jwt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "tok2" {
		t.Errorf("expected tok2, got %q", v)
	}

	if err := s.Delete("kmato_jwt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	v, _ = s.Get("kmato_jwt")
	if v != nil {
		t.Errorf("expected nil after delete, got %q", v)
	}
}

func TestSQLStoreCustomTable(t *testing.T) {
	db := openTestDB(t)

	s := NewSQLStore(db, WithSQLTableName("client_state"))
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM client_state`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row in client_state, got %d", n)
	}
}

func TestSQLStoreClosed(t *testing.T) {
	db := openTestDB(t)

	s := NewSQLStore(db)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	s.Close()

	if _, err := s.Get("k"); err == nil {
		t.Error("expected error on Get after Close")
	}
	if err := s.Set("k", nil); err == nil {
		t.Error("expected error on Set after Close")
	}
}
