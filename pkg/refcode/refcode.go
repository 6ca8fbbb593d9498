// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package refcode generates short human-shareable reference codes.

Itineraries are addressed externally by a fixed-length alphanumeric code
(e.g. "K7Q2XM94RT3H") that agents read over the phone and travelers type
into the customer portal. The code is distinct from the internal UUID
surrogate key.

Properties:

  - Unambiguous: The alphabet excludes 0/O and 1/I/L to survive handwriting.
  - Uniform: Characters are drawn with crypto/rand and rejection sampling,
    so no alphabet position is favored.
  - Collision-checked elsewhere: Uniqueness is enforced by the store's
    unique constraint, not by this package.
*/
package refcode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet is the character set used for reference codes.
// 0, O, 1, I and L are excluded to avoid transcription mistakes.
const Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// New generates a random reference code of the given length.
func New(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("refcode: length must be positive, got %d", length)
	}

	var builder strings.Builder
	builder.Grow(length)

	// Rejection sampling keeps the distribution uniform: bytes >= the
	// largest multiple of len(Alphabet) below 256 are discarded.
	limit := byte(256 - (256 % len(Alphabet)))

	buffer := make([]byte, length)
	for builder.Len() < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("refcode: failed to read entropy: %w", err)
		}
		for _, b := range buffer {
			if builder.Len() == length {
				break
			}
			if b >= limit {
				continue
			}
			builder.WriteByte(Alphabet[int(b)%len(Alphabet)])
		}
	}

	return builder.String(), nil
}

// IsValid reports whether s is a well-formed reference code of the given length.
func IsValid(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
