package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadAppliesDefaultsAndOverrides(t *testing.T) {
	input := `
api_base_url = "https://hr.example.com/api/v1"
request_timeout = "5s"
remember_me = true
`
	cfg, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://hr.example.com/api/v1" {
		t.Fatalf("unexpected api url: %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.RequestTimeout)
	}
	if !cfg.RememberMe {
		t.Fatal("expected remember_me true")
	}
	if cfg.PushPath != "/ws" {
		t.Fatalf("expected default push path, got %s", cfg.PushPath)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("LEAVECTL_API_URL", "http://override:9090/api/v1")
	cfg, err := Read(strings.NewReader(`api_base_url = "http://file:8080/api/v1"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://override:9090/api/v1" {
		t.Fatalf("env override not applied: %s", cfg.APIBaseURL)
	}
}

func TestReadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := ReadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.APIBaseURL == "" {
		t.Fatal("expected default api url")
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Init(path, Default()); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := Init(path, Default()); err == nil {
		t.Fatal("expected error on second init")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	bad := cfg
	bad.APIBaseURL = "ftp://nope"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for non-http url")
	}

	bad = cfg
	bad.RequestTimeout = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}
