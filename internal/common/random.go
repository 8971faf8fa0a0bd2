package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// verificationAlphabet is the character set for human-entered codes.
// Ambiguous characters (0/O, 1/I/L) are excluded so a code read off a
// terminal can be typed into a browser without transcription mistakes.
const verificationAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string length is twice the size (each byte expands to
// two hex characters).
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeVerificationCode generates an uppercase human-readable code of the
// given length, drawn uniformly from verificationAlphabet. Random bytes
// are rejection-sampled so no character is more likely than another.
func MakeVerificationCode(length int) (string, error) {
	// Largest multiple of the alphabet size that fits in a byte; bytes at
	// or above it would skew the distribution and are redrawn.
	max := byte(256 - 256%len(verificationAlphabet))

	var sb strings.Builder
	sb.Grow(length)
	buf := make([]byte, 1)
	for sb.Len() < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if buf[0] >= max {
			continue
		}
		sb.WriteByte(verificationAlphabet[int(buf[0])%len(verificationAlphabet)])
	}
	return sb.String(), nil
}
