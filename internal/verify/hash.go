package verify

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const randomHashBytes = 32

// NewRandomHash returns 32 random bytes as 64 lower-case hex characters.
// Clients display it as the "blockchain hash"; it carries no ledger guarantee.
func NewRandomHash() (string, error) {
	b := make([]byte, randomHashBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
