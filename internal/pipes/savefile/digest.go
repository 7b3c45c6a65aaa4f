package savefile

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Digest returns the BLAKE3-256 hash of a persisted document as hex.
// Identical documents share a digest, which storage uses to skip duplicate saves.
func Digest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// ShortDigest returns the first 12 hex characters of Digest.
func ShortDigest(body []byte) string {
	return Digest(body)[:12]
}
