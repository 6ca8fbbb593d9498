// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token of byteLength
// random bytes (so the string is twice that length).
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 digest of a token, hex encoded.
//
// Refresh tokens are stored only in hashed form so a database leak does not
// expose usable credentials.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
