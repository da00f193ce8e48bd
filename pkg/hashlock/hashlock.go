// Package hashlock implements the SHA-256 commitment scheme used to
// authorize swap withdrawals: a hashlock is the lowercase hex encoding
// of the SHA-256 digest of a secret preimage.
package hashlock

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLen is the length of a hex-encoded SHA-256 digest.
const HashLen = 64

// Hash returns the lowercase hex-encoded SHA-256 digest of the preimage.
func Hash(preimage string) string {
	digest := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(digest[:])
}

// Verify reports whether the preimage hashes to the given hashlock.
// Comparison is plain string equality, not constant-time.
func Verify(preimage, hashlock string) bool {
	return Hash(preimage) == hashlock
}

// IsValid reports whether the hashlock is a well-formed commitment:
// exactly 64 lowercase hex characters.
func IsValid(hashlock string) bool {
	if len(hashlock) != HashLen {
		return false
	}
	for _, c := range hashlock {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
