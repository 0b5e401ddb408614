package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/palanikalyan/K-MATO/internal/kmerr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.WSURL != DefaultWSURL {
		t.Errorf("WSURL = %q", cfg.WSURL)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path == "" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
	if cfg.Path() != "" {
		t.Errorf("Path = %q, want empty for defaults", cfg.Path())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `{
		"apiUrl": "https://kmato.example/api",
		"wsUrl": "wss://kmato.example/ws/orders",
		"storage": {"driver": "sqlite", "path": "kmato.db"},
		"requestTimeout": "5s"
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://kmato.example/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "kmato.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := writeConfig(t, `{not json`)

	_, err := Load(dir)
	if !errors.Is(err, kmerr.New("KM5001")) {
		t.Fatalf("err = %v, want KM5001", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `{"apiUrl": "https://file.example/api"}`)
	t.Setenv("KMATO_API_URL", "https://env.example/api")
	t.Setenv("KMATO_STORAGE_DRIVER", "memory")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://env.example/api" {
		t.Errorf("APIURL = %q, env should win", cfg.APIURL)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"relative api url", `{"apiUrl": "/api"}`},
		{"http ws url", `{"wsUrl": "http://kmato.example/ws"}`},
		{"unknown driver", `{"storage": {"driver": "redis"}}`},
		{"bad timeout", `{"requestTimeout": "soon"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeConfig(t, tc.body)
			_, err := Load(dir)
			if !errors.Is(err, kmerr.New("KM5002")) {
				t.Fatalf("err = %v, want KM5002", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := writeConfig(t, `{"apiUrl": "https://kmato.example/api"}`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg.WSURL = "wss://kmato.example/ws/orders"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.WSURL != "wss://kmato.example/ws/orders" {
		t.Errorf("WSURL after reload = %q", again.WSURL)
	}
}
