package cryptox

import (
	"encoding/hex"
	"testing"
)

func TestHashToken_Deterministic(t *testing.T) {
	key := []byte("server-secret")
	a := HashToken("tok123", key)
	b := HashToken("tok123", key)
	if a != b {
		t.Fatalf("same token hashed to different values: %q vs %q", a, b)
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("hash is not valid hex: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars (sha256), got %d", len(a))
	}
}

func TestHashToken_KeyChangesHash(t *testing.T) {
	if HashToken("tok123", []byte("k1")) == HashToken("tok123", []byte("k2")) {
		t.Fatal("different keys produced identical hashes")
	}
}

func TestHashToken_TokenChangesHash(t *testing.T) {
	key := []byte("server-secret")
	if HashToken("tok123", key) == HashToken("tok124", key) {
		t.Fatal("different tokens produced identical hashes")
	}
}

func TestHashDeviceFingerprint_StableAndShort(t *testing.T) {
	a := HashDeviceFingerprint("host-linux-user")
	b := HashDeviceFingerprint("host-linux-user")
	if a != b {
		t.Fatalf("fingerprint is not stable: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%q)", len(a), a)
	}
}
