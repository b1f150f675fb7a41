// Package checksum computes content digests for note records so that
// external caches can diff a scan stream against their stored state.
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

// Short returns a 12-character prefix of Sum, enough to identify a
// revision in logs and human-facing listings.
func Short(data []byte) string {
	return Sum(data)[:12]
}
