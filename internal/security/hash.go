package security

import (
	"crypto/sha512"
	"encoding/base64"
)

// HashPassword digests a password with SHA-512, base64-encoded.
func HashPassword(raw string) string {
	digest := sha512.Sum512([]byte(raw))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// ComparePassword checks a candidate password against a stored digest.
// The comparison is a plain string equality over digests, matching the
// behavior this service replaces. Not constant-time.
func ComparePassword(candidate, storedDigest string) bool {
	return HashPassword(candidate) == storedDigest
}

// IsPasswordDigest reports whether a value has the shape of a stored digest
// (base64 of a SHA-512 sum is always 88 bytes).
func IsPasswordDigest(value string) bool {
	return len(value) == 88
}

func base64Encode(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
