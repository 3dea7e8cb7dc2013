package utils

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for session tokens
	"encoding/hex"  // hex encoding for tokens and digests
)

// NewSessionToken returns a cryptographically secure random token for a
// browser session cookie.  The raw value goes to the client; only its hash
// is persisted.
func NewSessionToken() (string, error) {
	return randomHex(32) // 32 bytes -> 64 hex chars
}

// HashSessionRaw returns the SHA-256 hash of the raw session token as a hex
// string.  Storing only the hash in the database prevents attackers from
// using stolen session rows to impersonate logged-in users.
func HashSessionRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
