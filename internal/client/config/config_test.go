package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("unexpected server url %q", cfg.ServerURL)
	}
	if cfg.CredentialsBackend != "file" {
		t.Errorf("unexpected backend %q", cfg.CredentialsBackend)
	}
	if cfg.PollInterval != 5*time.Second || cfg.PollAttempts != 60 {
		t.Errorf("unexpected poll cadence %v x %d", cfg.PollInterval, cfg.PollAttempts)
	}
}

func TestLoad_JsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"server_url":"https://api.example.com","credentials_backend":"keyring","poll_interval":"2s","poll_attempts":10}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ServerURL != "https://api.example.com" {
		t.Errorf("unexpected server url %q", cfg.ServerURL)
	}
	if cfg.CredentialsBackend != "keyring" {
		t.Errorf("unexpected backend %q", cfg.CredentialsBackend)
	}
	if cfg.PollInterval != 2*time.Second || cfg.PollAttempts != 10 {
		t.Errorf("unexpected poll cadence %v x %d", cfg.PollInterval, cfg.PollAttempts)
	}
}

func TestLoad_EnvOverridesJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server_url":"https://json.example.com"}`), 0o600); err != nil {
		t.Fatalf("write error: %v", err)
	}
	t.Setenv("COMMIS_SERVER", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ServerURL != "https://env.example.com" {
		t.Errorf("env must win, got %q", cfg.ServerURL)
	}
}

func TestLoad_MalformedJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{nope`), 0o600); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
