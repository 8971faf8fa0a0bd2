// Package cryptox provides the one-way token hashing used by the credential
// store. Only hashes are persisted; the presented plaintext doubles as the
// lookup key after re-hashing.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashToken computes a keyed one-way hash of a plaintext bearer token.
// The key acts as a server-side salt: a leaked table of hashes cannot be
// checked against candidate tokens without it. The same token always maps
// to the same hash, which is what makes lookup-by-hash possible.
func HashToken(token string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// HashDeviceFingerprint derives a short stable identifier from device
// attributes. Truncated to 16 hex characters; this is an identifier,
// not a secret.
func HashDeviceFingerprint(parts string) string {
	sum := sha256.Sum256([]byte(parts))
	return hex.EncodeToString(sum[:])[:16]
}
