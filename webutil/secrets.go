package webutil

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const fingerprintLength = 12

// Fingerprint returns a short SHA-256 digest of a secret so it can be logged
// without being disclosed.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// SecretsEqual compares two secrets in time independent of where they differ.
func SecretsEqual(provided, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
