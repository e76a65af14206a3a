package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Single-use tokens (email confirmation, password reset) are 256 bits of
// randomness rendered as 64 lower-case hex characters.
var singleUseTokenRe = regexp.MustCompile(`^[a-f0-9]{64}$`)

// NewSingleUseToken generates a fresh confirmation/reset token.
func NewSingleUseToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsSingleUseToken reports whether s has the shape of a generated token.
// Rejecting malformed input here keeps garbage out of the store lookup.
func IsSingleUseToken(s string) bool {
	return singleUseTokenRe.MatchString(s)
}
