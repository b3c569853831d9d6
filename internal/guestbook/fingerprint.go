package guestbook

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLen is the number of hex characters kept from the hash.
const fingerprintLen = 16

// Fingerprint derives the stored submitter identifier from a network
// address. Only this one-way hash is ever persisted, never the address.
func Fingerprint(addr string) string {
	sum := sha256.Sum256([]byte(addr))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
