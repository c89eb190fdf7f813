package session

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 32

// newToken returns a 256-bit random token in hex. Collisions are negligible
// by construction; the unique constraint in the store is the backstop.
func newToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
