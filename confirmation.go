package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultConfirmationTTL is the window a confirmation token stays valid.
const DefaultConfirmationTTL = 24 * time.Hour

// confirmationTokenBytes gives 64 hex characters, enough entropy to make
// collisions between pending registrations improbable.
const confirmationTokenBytes = 32

// GenerateConfirmationToken returns a cryptographically random, single-use
// confirmation token.
func GenerateConfirmationToken() (string, error) {
	buf := make([]byte, confirmationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
