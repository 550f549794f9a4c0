// Package checksum fingerprints file contents so the publisher can skip
// rewriting output that has not changed.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Equal reports whether data hashes to the given digest. An empty digest
// never matches, so absent files always count as changed.
func Equal(digest string, data []byte) bool {
	return digest != "" && digest == Sum(data)
}
