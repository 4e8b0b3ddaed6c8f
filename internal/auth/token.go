package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// SessionTokenBytes is the amount of randomness in a session token.
// Tokens travel hex encoded, so they are twice as long.
const SessionTokenBytes = 32

// sessionTokenRegex validates the wire format of a session token.
var sessionTokenRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// GenerateSessionToken returns a new opaque session token.
// The token is handed to the client; only HashSessionToken(token) should be
// used as a storage key.
func GenerateSessionToken() (string, error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// HashSessionToken returns the SHA-256 digest of a token, hex encoded.
// This is NOT for password storage, only for session key derivation.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateSessionToken checks if the token matches the expected format.
func ValidateSessionToken(token string) bool {
	return sessionTokenRegex.MatchString(token)
}
