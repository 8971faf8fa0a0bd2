package credstore

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	s := NewKeyringStore()

	if _, err := s.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}

	if err := s.Save(&Credentials{Token: "access-abc", RefreshToken: "refresh-xyz"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Token != "access-abc" || loaded.RefreshToken != "refresh-xyz" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear must succeed: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials after clear, got %v", err)
	}
}
