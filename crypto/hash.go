package crypto

import (
	"crypto/sha256"

	b58 "github.com/mr-tron/base58"
)

// SHA256Hash computes the sha256 checksum (32 bytes) and returns
// its base58 encoding.
func SHA256Hash(b []byte) string {
	v := sha256.Sum256(b)
	return b58.Encode(v[:])
}

// SHA256HashBytes computes the raw sha256 checksum (32 bytes).
func SHA256HashBytes(b []byte) [32]byte {
	return sha256.Sum256(b)
}
